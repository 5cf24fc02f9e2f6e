package commands

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"guildbot/colors"
	"guildbot/logger"
)

const (
	testGuild = "100"
	testUser  = "200"
)

var testRoles = map[string]string{
	colors.Blue:   "1287055082004680818",
	colors.Green:  "1287059217513189478",
	colors.Yellow: "1287059286635057152",
	colors.Purple: "1287059475290914994",
}

type colorChange struct {
	GuildID, UserID, Choice string
}

// memStore is an in-memory interfaces.DataStore.
type memStore struct {
	mu      sync.Mutex
	usage   map[string]int
	changes []colorChange
	failAll bool
}

func newMemStore() *memStore {
	return &memStore{usage: make(map[string]int)}
}

var errStore = errors.New("store unavailable")

func (m *memStore) Close()        {}
func (m *memStore) PingDB() error { return nil }

func (m *memStore) IncrementCommandUsage(category string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll {
		return errStore
	}
	m.usage[category]++
	return nil
}

func (m *memStore) GetAndResetCommandUsage() (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.usage
	m.usage = make(map[string]int)
	return out, nil
}

func (m *memStore) RecordColorChange(guildID, userID, choice string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll {
		return errStore
	}
	m.changes = append(m.changes, colorChange{guildID, userID, choice})
	return nil
}

func (m *memStore) colorChanges() []colorChange {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]colorChange(nil), m.changes...)
}

func testPalette(t *testing.T) *colors.Palette {
	t.Helper()
	p, err := colors.NewPalette(testRoles)
	require.NoError(t, err)
	return p
}

var nopLog = logger.Nop()
