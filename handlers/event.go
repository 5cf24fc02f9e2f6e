package handlers

import (
	"guildbot/colors"
	"guildbot/interfaces"

	"github.com/bwmarrin/discordgo"
)

// EventHandler watches guild role events for the configured color roles.
type EventHandler struct {
	Palette *colors.Palette
	GuildID string
	Log     interfaces.Logger
}

func NewEventHandler(p *colors.Palette, guildID string, log interfaces.Logger) *EventHandler {
	return &EventHandler{Palette: p, GuildID: guildID, Log: log}
}

func (h *EventHandler) RegisterAllHandlers(s *discordgo.Session) {
	s.AddHandler(h.handleGuildCreate)
	s.AddHandler(h.handleGuildRoleDelete)
}

func (h *EventHandler) watches(guildID string) bool {
	return h.GuildID == "" || h.GuildID == guildID
}

func (h *EventHandler) handleGuildCreate(s *discordgo.Session, e *discordgo.GuildCreate) {
	if e.Guild == nil {
		return
	}
	h.CheckGuildRoles(e.ID, e.Roles)
}

func (h *EventHandler) handleGuildRoleDelete(s *discordgo.Session, e *discordgo.GuildRoleDelete) {
	h.RoleDeleted(e.GuildID, e.RoleID)
}

// CheckGuildRoles logs and returns the colors whose role is missing from
// roles. Guilds other than the configured one are skipped.
func (h *EventHandler) CheckGuildRoles(guildID string, roles []*discordgo.Role) []string {
	if !h.watches(guildID) {
		return nil
	}
	present := make(map[string]bool, len(roles))
	for _, r := range roles {
		present[r.ID] = true
	}

	var missing []string
	for _, key := range colors.Keys {
		roleID, _ := h.Palette.RoleID(key)
		if !present[roleID] {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		h.Log.Warn("色ロールがギルドに存在しません。/color は失敗します。", "guild_id", guildID, "colors", missing)
	}
	return missing
}

// RoleDeleted reports whether the deleted role was a color role.
func (h *EventHandler) RoleDeleted(guildID, roleID string) bool {
	if !h.watches(guildID) || !h.Palette.IsColorRole(roleID) {
		return false
	}
	h.Log.Error("色ロールが削除されました。設定を更新してください。", "guild_id", guildID, "role_id", roleID)
	return true
}
