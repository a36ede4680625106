package roster

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/warmer/internal/domain"
)

func testWindow(t *testing.T) domain.ActivityWindow {
	t.Helper()

	loc, err := time.LoadLocation("America/Los_Angeles")
	require.NoError(t, err)
	return domain.DefaultActivityWindow(loc)
}

func TestRenderRosterWithOpenWindow(t *testing.T) {
	window := testWindow(t)
	now := time.Date(2026, 3, 2, 20, 30, 0, 0, window.Location)

	output, err := Render(Roster{
		Accounts: []domain.Account{
			{Name: "Alice", RoutingHandle: "7506", Address: "393513919566@c.us"},
			{RoutingHandle: "15037", Address: "393271696617@c.us"},
			{Name: "Carol", RoutingHandle: "15038", Address: "393270196822@c.us"},
		},
		Window: window,
		Now:    now,
	})
	require.NoError(t, err)

	assert.Contains(t, output, "Warming Fleet")
	assert.Contains(t, output, "accounts: 3")
	assert.Contains(t, output, "06:00-23:00 America/Los_Angeles")
	assert.Contains(t, output, "open")
	assert.Contains(t, output, "closes in 3 hours at 23:00")
	assert.Contains(t, output, "Alice")
	assert.Contains(t, output, "393271696617@c.us")
	assert.Contains(t, output, "routing handle: 15038  peers: 2")
	assert.NotContains(t, output, "duplicate")
}

func TestRenderRosterFlagsDuplicatesAndLoneAccount(t *testing.T) {
	window := testWindow(t)

	output, err := Render(Roster{
		Accounts: []domain.Account{{Name: "Solo", RoutingHandle: "1", Address: "a@c.us"}},
		Window:   window,
	})
	require.NoError(t, err)
	assert.Contains(t, output, "no peers")

	output, err = Render(Roster{
		Accounts: []domain.Account{
			{RoutingHandle: "15056", Address: "393770833950@c.us"},
			{RoutingHandle: "18023", Address: "393770833950@c.us"},
		},
		Window: window,
	})
	require.NoError(t, err)
	assert.Contains(t, output, "[duplicate address]")
}

func TestRenderRosterEmpty(t *testing.T) {
	output, err := Render(Roster{Window: testWindow(t)})
	require.NoError(t, err)
	assert.Contains(t, output, "No accounts registered.")
}

func TestRenderWindowClosed(t *testing.T) {
	t.Parallel()

	window := testWindow(t)
	now := time.Date(2026, 3, 2, 23, 15, 0, 0, window.Location)

	output := RenderWindow(window, now)
	assert.Contains(t, output, "closed")
	assert.Contains(t, output, "opens in 7 hours at 06:00 Tue")
}

func TestRenderWindowAlwaysOpen(t *testing.T) {
	t.Parallel()

	loc := testWindow(t).Location
	window := domain.ActivityWindow{Start: domain.TimeOfDay(0), End: domain.TimeOfDay(0), Location: loc}

	output := RenderWindow(window, time.Date(2026, 3, 2, 3, 0, 0, 0, loc))
	assert.Contains(t, output, "(always)")
}

func TestFormatRelative(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "now", formatRelative(0))
	assert.Equal(t, "in 1 minute", formatRelative(30*time.Second))
	assert.Equal(t, "in 45 minutes", formatRelative(45*time.Minute))
	assert.Equal(t, "in 1 hour", formatRelative(time.Hour))
	assert.Equal(t, "in 2 hours", formatRelative(61*time.Minute))
}
