package roster

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/warmer/internal/domain"
)

const windowBarWidth = 24

type Roster struct {
	Accounts []domain.Account
	Window   domain.ActivityWindow
	Now      time.Time
}

func renderRoster(r Roster, s styles) string {
	lines := []string{
		s.title.Render("Warming Fleet"),
		s.header.Render(fmt.Sprintf("accounts: %d  window: %s", len(r.Accounts), r.Window)),
		renderWindow(r.Window, r.Now, s),
	}

	if len(r.Accounts) == 0 {
		lines = append(lines, s.empty.Render("No accounts registered."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}
	if len(r.Accounts) == 1 {
		lines = append(lines, s.warning.Render("A single account has no peers; it will idle every round."))
	}

	seen := make(map[string]int, len(r.Accounts))
	for _, account := range r.Accounts {
		seen[account.Address]++
	}

	for _, account := range r.Accounts {
		lines = append(lines, s.section.Render(renderAccount(account, len(r.Accounts), seen[account.Address] > 1, s)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderAccount(account domain.Account, total int, duplicate bool, s styles) string {
	title := s.account.Render(account.Label())
	if duplicate {
		title += " " + s.warning.Render("[duplicate address]")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		s.detail.Render(fmt.Sprintf("address: %s", account.Address)),
		s.detail.Render(fmt.Sprintf("routing handle: %s  peers: %d", account.RoutingHandle, total-1)),
	)
}

// RenderWindow describes whether the window is open at now, without the
// account listing.
func RenderWindow(window domain.ActivityWindow, now time.Time) string {
	s := newStyles()
	return lipgloss.JoinVertical(lipgloss.Left,
		s.header.Render(fmt.Sprintf("window: %s", window)),
		renderWindow(window, now, s),
	)
}

func renderWindow(window domain.ActivityWindow, now time.Time, s styles) string {
	if now.IsZero() {
		return ""
	}

	if window.Start == window.End {
		return s.open.Render("open") + " " + s.detail.Render("(always)")
	}

	if !window.IsAllowed(now) {
		opensAt := window.NextOpen(now)
		return lipgloss.JoinHorizontal(lipgloss.Top,
			s.closed.Render("closed"),
			" ",
			s.detail.Render(fmt.Sprintf("(opens %s at %s)", formatRelative(opensAt.Sub(now)), opensAt.Format("15:04 Mon"))),
		)
	}

	closesAt := window.NextClose(now)
	return lipgloss.JoinHorizontal(lipgloss.Top,
		s.open.Render("open"),
		" ",
		renderProgressBar(elapsedFraction(window, now, closesAt), windowBarWidth, s),
		" ",
		s.detail.Render(fmt.Sprintf("(closes %s at %s)", formatRelative(closesAt.Sub(now)), closesAt.Format("15:04"))),
	)
}

// elapsedFraction is how much of today's open period has passed.
func elapsedFraction(window domain.ActivityWindow, now, closesAt time.Time) float64 {
	length := time.Duration(window.End - window.Start)
	if length <= 0 {
		length += 24 * time.Hour
	}

	remaining := closesAt.Sub(now)
	return clampFraction(1 - float64(remaining)/float64(length))
}

func renderProgressBar(fraction float64, width int, s styles) string {
	if width <= 0 {
		return ""
	}

	filled := int(math.Round(float64(width) * clampFraction(fraction)))
	empty := width - filled

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		s.barFill.Render(strings.Repeat("=", filled)),
		s.barEmpty.Render(strings.Repeat("-", empty)),
		s.barBracket.Render("]"),
	)
}

func clampFraction(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func formatRelative(d time.Duration) string {
	if d <= 0 {
		return "now"
	}
	if d < time.Hour {
		minutes := int(math.Ceil(d.Minutes()))
		if minutes == 1 {
			return "in 1 minute"
		}
		return fmt.Sprintf("in %d minutes", minutes)
	}

	hours := int(math.Ceil(d.Hours()))
	if hours == 1 {
		return "in 1 hour"
	}
	return fmt.Sprintf("in %d hours", hours)
}
