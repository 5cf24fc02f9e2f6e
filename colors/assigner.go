package colors

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

var (
	ErrMemberNotFound = errors.New("colors: member not found")
	ErrUnknownChoice  = errors.New("colors: unknown color choice")
)

const reasonRemove = "Removing existing color role"

// MutationError is returned when a role add or remove call fails. The
// operations are not transactional, so a failed grant may follow a
// successful revoke.
type MutationError struct {
	Op     string
	RoleID string
	Err    error
}

func (e *MutationError) Error() string {
	return fmt.Sprintf("colors: %s role %s: %v", e.Op, e.RoleID, e.Err)
}

func (e *MutationError) Unwrap() error {
	return e.Err
}

// RoleEditor is the part of the Discord session the assigner needs.
type RoleEditor interface {
	GuildMember(guildID, userID string, options ...discordgo.RequestOption) (*discordgo.Member, error)
	GuildMemberRoleAdd(guildID, userID, roleID string, options ...discordgo.RequestOption) error
	GuildMemberRoleRemove(guildID, userID, roleID string, options ...discordgo.RequestOption) error
}

// Result describes a completed assignment.
type Result struct {
	Choice  string
	RoleID  string
	Removed []string
}

// Assigner swaps a member's color role.
type Assigner struct {
	Palette *Palette
}

func NewAssigner(p *Palette) *Assigner {
	return &Assigner{Palette: p}
}

// Assign removes any other color role the member holds and then grants the
// role mapped from choice. Each call runs to completion before the next one
// is issued.
func (a *Assigner) Assign(ctx context.Context, s RoleEditor, guildID, userID, choice string) (*Result, error) {
	roleID, ok := a.Palette.RoleID(choice)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownChoice, choice)
	}

	member, err := s.GuildMember(guildID, userID, discordgo.WithContext(ctx))
	if err != nil || member == nil {
		return nil, fmt.Errorf("%w: %v", ErrMemberNotFound, err)
	}

	res := &Result{Choice: choice, RoleID: roleID}
	for _, held := range a.Palette.HeldRoles(member.Roles) {
		if held == roleID {
			continue
		}
		if err := s.GuildMemberRoleRemove(guildID, userID, held,
			discordgo.WithContext(ctx), discordgo.WithAuditLogReason(reasonRemove)); err != nil {
			return res, &MutationError{Op: "remove", RoleID: held, Err: err}
		}
		res.Removed = append(res.Removed, held)
	}

	reason := fmt.Sprintf("Assigning new color role: %s", choice)
	if err := s.GuildMemberRoleAdd(guildID, userID, roleID,
		discordgo.WithContext(ctx), discordgo.WithAuditLogReason(reason)); err != nil {
		return res, &MutationError{Op: "add", RoleID: roleID, Err: err}
	}
	return res, nil
}
