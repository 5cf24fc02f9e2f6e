// Package discordtest provides an in-memory stand-in for the Discord REST
// calls the bot makes, for use in tests.
package discordtest

import (
	"errors"
	"net/http"
	"sync"

	"github.com/bwmarrin/discordgo"
)

var ErrUnknownMember = errors.New("discordtest: unknown member")

// RoleCall records a role mutation.
type RoleCall struct {
	Op      string // "add" or "remove"
	GuildID string
	UserID  string
	RoleID  string
	Reason  string
}

// Response records an InteractionRespond call.
type Response struct {
	InteractionID string
	Response      *discordgo.InteractionResponse
}

// Edit records an InteractionResponseEdit call.
type Edit struct {
	InteractionID string
	Edit          *discordgo.WebhookEdit
}

// Session is a fake Discord session. Members are keyed by guild and user ID
// and their role lists are mutated by the role calls.
type Session struct {
	mu sync.Mutex

	members map[string]*discordgo.Member

	AddErr     error
	RemoveErr  error
	RespondErr error

	roleCalls []RoleCall
	responses []Response
	edits     []Edit
}

func NewSession() *Session {
	return &Session{members: make(map[string]*discordgo.Member)}
}

func memberKey(guildID, userID string) string {
	return guildID + ":" + userID
}

// AddMember registers a member holding roles.
func (s *Session) AddMember(guildID, userID string, roles ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.members[memberKey(guildID, userID)] = &discordgo.Member{
		GuildID: guildID,
		User:    &discordgo.User{ID: userID},
		Roles:   append([]string(nil), roles...),
	}
}

// Roles returns the current roles of a member.
func (s *Session) Roles(guildID, userID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.members[memberKey(guildID, userID)]
	if !ok {
		return nil
	}
	return append([]string(nil), m.Roles...)
}

func (s *Session) RoleCalls() []RoleCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RoleCall(nil), s.roleCalls...)
}

func (s *Session) Responses() []Response {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Response(nil), s.responses...)
}

func (s *Session) Edits() []Edit {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Edit(nil), s.edits...)
}

// LastResponse returns the most recent InteractionRespond payload, or nil.
func (s *Session) LastResponse() *discordgo.InteractionResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.responses) == 0 {
		return nil
	}
	return s.responses[len(s.responses)-1].Response
}

func auditReason(options []discordgo.RequestOption) string {
	req, _ := http.NewRequest(http.MethodGet, "http://discord.invalid", nil)
	cfg := &discordgo.RequestConfig{Request: req}
	for _, opt := range options {
		opt(cfg)
	}
	return cfg.Request.Header.Get("X-Audit-Log-Reason")
}

func (s *Session) InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.RespondErr != nil {
		return s.RespondErr
	}
	s.responses = append(s.responses, Response{InteractionID: interaction.ID, Response: resp})
	return nil
}

func (s *Session) InteractionResponseEdit(interaction *discordgo.Interaction, newresp *discordgo.WebhookEdit, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.edits = append(s.edits, Edit{InteractionID: interaction.ID, Edit: newresp})
	return &discordgo.Message{ID: interaction.ID}, nil
}

func (s *Session) GuildMember(guildID, userID string, options ...discordgo.RequestOption) (*discordgo.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.members[memberKey(guildID, userID)]
	if !ok {
		return nil, ErrUnknownMember
	}
	cp := *m
	cp.Roles = append([]string(nil), m.Roles...)
	return &cp, nil
}

func (s *Session) GuildMemberRoleAdd(guildID, userID, roleID string, options ...discordgo.RequestOption) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roleCalls = append(s.roleCalls, RoleCall{Op: "add", GuildID: guildID, UserID: userID, RoleID: roleID, Reason: auditReason(options)})
	if s.AddErr != nil {
		return s.AddErr
	}
	m, ok := s.members[memberKey(guildID, userID)]
	if !ok {
		return ErrUnknownMember
	}
	for _, r := range m.Roles {
		if r == roleID {
			return nil
		}
	}
	m.Roles = append(m.Roles, roleID)
	return nil
}

func (s *Session) GuildMemberRoleRemove(guildID, userID, roleID string, options ...discordgo.RequestOption) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roleCalls = append(s.roleCalls, RoleCall{Op: "remove", GuildID: guildID, UserID: userID, RoleID: roleID, Reason: auditReason(options)})
	if s.RemoveErr != nil {
		return s.RemoveErr
	}
	m, ok := s.members[memberKey(guildID, userID)]
	if !ok {
		return ErrUnknownMember
	}
	kept := m.Roles[:0]
	for _, r := range m.Roles {
		if r != roleID {
			kept = append(kept, r)
		}
	}
	m.Roles = kept
	return nil
}
