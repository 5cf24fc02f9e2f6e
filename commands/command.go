package commands

import "github.com/bwmarrin/discordgo"

// requester は、インタラクションを実行したユーザーを返します。
// ギルド内では Member.User、DM では User に入っています。
func requester(i *discordgo.Interaction) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

func actorID(i *discordgo.Interaction) string {
	if u := requester(i); u != nil {
		return u.ID
	}
	return ""
}

// avatarIcon returns the custom avatar of u for embed footers, or "" when the
// user has none.
func avatarIcon(u *discordgo.User) string {
	if u == nil || u.Avatar == "" {
		return ""
	}
	return u.AvatarURL("")
}

func guildOnly() (*bool, *[]discordgo.InteractionContextType) {
	dmPermission := false
	return &dmPermission, &[]discordgo.InteractionContextType{discordgo.InteractionContextGuild}
}
