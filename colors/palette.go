// Package colors implements the mutually exclusive color roles members can
// pick with /color.
package colors

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
)

const (
	Blue   = "blue"
	Green  = "green"
	Yellow = "yellow"
	Purple = "purple"
)

// Keys is the closed set of color choices, in display order.
var Keys = []string{Blue, Green, Yellow, Purple}

var ErrInvalidPalette = errors.New("colors: invalid palette")

// Palette maps each color choice to the role that represents it.
type Palette struct {
	roles map[string]string
	keyOf map[string]string
}

// NewPalette validates roles and builds a Palette. Exactly the four known keys
// must be present, each mapped to a distinct role snowflake.
func NewPalette(roles map[string]string) (*Palette, error) {
	p := &Palette{
		roles: make(map[string]string, len(Keys)),
		keyOf: make(map[string]string, len(Keys)),
	}
	for key := range roles {
		if !isKey(key) {
			return nil, fmt.Errorf("%w: unknown color %q", ErrInvalidPalette, key)
		}
	}
	for _, key := range Keys {
		roleID := strings.TrimSpace(roles[key])
		if roleID == "" {
			return nil, fmt.Errorf("%w: no role configured for %q", ErrInvalidPalette, key)
		}
		if _, err := strconv.ParseUint(roleID, 10, 64); err != nil {
			return nil, fmt.Errorf("%w: role for %q is not a snowflake: %q", ErrInvalidPalette, key, roleID)
		}
		if other, ok := p.keyOf[roleID]; ok {
			return nil, fmt.Errorf("%w: %q and %q share role %s", ErrInvalidPalette, other, key, roleID)
		}
		p.roles[key] = roleID
		p.keyOf[roleID] = key
	}
	return p, nil
}

func isKey(key string) bool {
	for _, k := range Keys {
		if k == key {
			return true
		}
	}
	return false
}

// RoleID returns the role mapped to key.
func (p *Palette) RoleID(key string) (string, bool) {
	id, ok := p.roles[key]
	return id, ok
}

// IsColorRole reports whether roleID belongs to any color.
func (p *Palette) IsColorRole(roleID string) bool {
	_, ok := p.keyOf[roleID]
	return ok
}

// HeldRoles returns the color roles found in memberRoles, in member order.
func (p *Palette) HeldRoles(memberRoles []string) []string {
	var held []string
	for _, id := range memberRoles {
		if p.IsColorRole(id) {
			held = append(held, id)
		}
	}
	return held
}

// Choices builds the option choices for the /color command.
func (p *Palette) Choices() []*discordgo.ApplicationCommandOptionChoice {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(Keys))
	for _, key := range Keys {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  strings.ToUpper(key[:1]) + key[1:],
			Value: key,
		})
	}
	return choices
}
