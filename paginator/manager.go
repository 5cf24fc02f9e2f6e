package paginator

import (
	"errors"
	"strings"
	"sync"
	"time"

	"guildbot/interfaces"
	"guildbot/metrics"

	"github.com/bwmarrin/discordgo"
)

// DefaultTimeout is how long a viewer waits for the next accepted navigation
// event before it is finalized.
const DefaultTimeout = 300 * time.Second

const (
	actionPrevious = "previous"
	actionNext     = "next"
)

var ErrNoInteraction = errors.New("paginator: interaction is missing")

// Options configures a Manager.
type Options struct {
	Timeout   time.Duration
	Ephemeral bool
}

// Manager keeps the live viewers of one command. Component custom IDs have
// the form "<prefix><action>:<token>" where token is the ID of the
// interaction that opened the viewer.
type Manager struct {
	prefix string
	opts   Options
	log    interfaces.Logger

	mu      sync.Mutex
	viewers map[string]*viewer
}

type viewer struct {
	mu sync.Mutex

	token       string
	state       State
	render      Renderer
	session     interfaces.Session
	interaction *discordgo.Interaction
	timer       *time.Timer
	gen         int
	finished    bool
}

// NewManager creates a Manager whose components start with prefix.
func NewManager(prefix string, opts Options, log interfaces.Logger) *Manager {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return &Manager{
		prefix:  prefix,
		opts:    opts,
		log:     log,
		viewers: make(map[string]*viewer),
	}
}

// Prefix is the custom ID prefix routed to HandleComponent.
func (m *Manager) Prefix() string { return m.prefix }

func (m *Manager) customID(action, token string) string {
	return m.prefix + action + ":" + token
}

func (m *Manager) parseCustomID(customID string) (action, token string, ok bool) {
	rest, found := strings.CutPrefix(customID, m.prefix)
	if !found {
		return "", "", false
	}
	action, token, found = strings.Cut(rest, ":")
	if !found || token == "" || (action != actionPrevious && action != actionNext) {
		return "", "", false
	}
	return action, token, true
}

// Open replies to i with the overview page of total items and starts
// listening for navigation from the invoking user.
func (m *Manager) Open(s interfaces.Session, i *discordgo.Interaction, total int, r Renderer) error {
	if i == nil {
		return ErrNoInteraction
	}

	v := &viewer{
		token:       i.ID,
		state:       NewState(total, actorID(i)),
		render:      r,
		session:     s,
		interaction: i,
	}

	data := &discordgo.InteractionResponseData{
		Embeds:     []*discordgo.MessageEmbed{v.render.Render(v.state)},
		Components: m.controls(v),
	}
	if m.opts.Ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	if err := s.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	}); err != nil {
		return err
	}

	v.mu.Lock()
	m.mu.Lock()
	m.viewers[v.token] = v
	metrics.ViewersOpen.Set(float64(len(m.viewers)))
	m.mu.Unlock()
	m.arm(v)
	v.mu.Unlock()
	return nil
}

func (m *Manager) controls(v *viewer) []discordgo.MessageComponent {
	return Controls(
		m.customID(actionPrevious, v.token),
		m.customID(actionNext, v.token),
		v.state,
		v.finished,
	)
}

// arm (re)starts the inactivity timer. v.mu must be held.
func (m *Manager) arm(v *viewer) {
	if v.timer != nil {
		v.timer.Stop()
	}
	v.gen++
	gen := v.gen
	v.timer = time.AfterFunc(m.opts.Timeout, func() {
		m.expire(v, gen)
	})
}

func (m *Manager) expire(v *viewer, gen int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.finished || v.gen != gen {
		return
	}
	m.finalize(v)
}

// finalize redraws the current page with both controls disabled and drops
// the viewer. v.mu must be held.
func (m *Manager) finalize(v *viewer) {
	v.finished = true
	if v.timer != nil {
		v.timer.Stop()
	}

	m.mu.Lock()
	delete(m.viewers, v.token)
	metrics.ViewersOpen.Set(float64(len(m.viewers)))
	m.mu.Unlock()

	embeds := []*discordgo.MessageEmbed{v.render.Render(v.state)}
	components := m.controls(v)
	if _, err := v.session.InteractionResponseEdit(v.interaction, &discordgo.WebhookEdit{
		Embeds:     &embeds,
		Components: &components,
	}); err != nil {
		m.log.Error("Failed to finalize paginated view", "error", err, "token", v.token)
	}
}

// HandleComponent processes a button press. Presses by anyone other than the
// invoking user, or on a finished viewer, are acknowledged without changing
// the view.
func (m *Manager) HandleComponent(s interfaces.Session, i *discordgo.InteractionCreate) {
	action, token, ok := m.parseCustomID(i.MessageComponentData().CustomID)
	if !ok {
		m.acknowledge(s, i.Interaction)
		return
	}

	m.mu.Lock()
	v, ok := m.viewers[token]
	m.mu.Unlock()
	if !ok {
		metrics.Navigation.WithLabelValues(action, "false").Inc()
		m.acknowledge(s, i.Interaction)
		return
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.finished || actorID(i.Interaction) != v.state.OwnerID {
		metrics.Navigation.WithLabelValues(action, "false").Inc()
		m.acknowledge(s, i.Interaction)
		return
	}

	switch action {
	case actionPrevious:
		v.state.Previous()
	case actionNext:
		v.state.Next()
	}
	metrics.Navigation.WithLabelValues(action, "true").Inc()

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{v.render.Render(v.state)},
			Components: m.controls(v),
		},
	})
	if err != nil {
		m.log.Error("Failed to update paginated view", "error", err, "token", token, "index", v.state.Index)
	}
	m.arm(v)
}

func (m *Manager) acknowledge(s interfaces.Session, i *discordgo.Interaction) {
	err := s.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	})
	if err != nil {
		m.log.Warn("Failed to acknowledge component interaction", "error", err)
	}
}

// Lookup returns a snapshot of the viewer opened by the interaction token.
func (m *Manager) Lookup(token string) (State, bool) {
	m.mu.Lock()
	v, ok := m.viewers[token]
	m.mu.Unlock()
	if !ok {
		return State{}, false
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state, true
}

// OpenCount returns the number of viewers still accepting navigation.
func (m *Manager) OpenCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.viewers)
}

// Close finalizes every open viewer.
func (m *Manager) Close() {
	m.mu.Lock()
	open := make([]*viewer, 0, len(m.viewers))
	for _, v := range m.viewers {
		open = append(open, v)
	}
	m.mu.Unlock()

	for _, v := range open {
		v.mu.Lock()
		if !v.finished {
			m.finalize(v)
		}
		v.mu.Unlock()
	}
	m.log.Info("Closed paginated viewers", "count", len(open))
}

func actorID(i *discordgo.Interaction) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}
