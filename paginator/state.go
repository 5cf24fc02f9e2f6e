// Package paginator implements interaction-scoped, button-driven page
// navigation over a fixed number of items.
//
// Page 0 is an overview; pages 1..Total show item Index-1.
package paginator

import "github.com/bwmarrin/discordgo"

// State is the navigation state of one viewer.
type State struct {
	Index   int
	Total   int
	OwnerID string
}

// NewState starts on the overview page.
func NewState(total int, ownerID string) State {
	if total < 0 {
		total = 0
	}
	return State{Total: total, OwnerID: ownerID}
}

func (s State) CanPrevious() bool { return s.Index > 0 }

func (s State) CanNext() bool { return s.Index < s.Total }

// Previous moves one page back. It reports whether the index changed.
func (s *State) Previous() bool {
	if !s.CanPrevious() {
		return false
	}
	s.Index--
	return true
}

// Next moves one page forward. It reports whether the index changed.
func (s *State) Next() bool {
	if !s.CanNext() {
		return false
	}
	s.Index++
	return true
}

func (s State) IsOverview() bool { return s.Index == 0 }

// Item returns the zero-based item shown on a detail page, or -1 on the
// overview.
func (s State) Item() int { return s.Index - 1 }

// Renderer draws the embed for a state. Implementations must not keep or
// mutate the state.
type Renderer interface {
	Render(s State) *discordgo.MessageEmbed
}

// RenderFunc adapts a plain function to Renderer.
type RenderFunc func(s State) *discordgo.MessageEmbed

func (f RenderFunc) Render(s State) *discordgo.MessageEmbed { return f(s) }

// Controls builds the previous/next button row for s. When finished is set
// both buttons are disabled.
func Controls(prevID, nextID string, s State, finished bool) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					CustomID: prevID,
					Style:    discordgo.SecondaryButton,
					Emoji:    &discordgo.ComponentEmoji{Name: "◀️"},
					Disabled: finished || !s.CanPrevious(),
				},
				discordgo.Button{
					CustomID: nextID,
					Style:    discordgo.SecondaryButton,
					Emoji:    &discordgo.ComponentEmoji{Name: "▶️"},
					Disabled: finished || !s.CanNext(),
				},
			},
		},
	}
}
