package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/warmer/internal/application"
	"github.com/bnema/warmer/internal/domain"
)

var (
	progressSpinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("69"))
	progressRetryStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

type attemptMsg application.AttemptReport

type generatedMsg struct {
	message domain.Message
	err     error
}

// generateProgressModel tracks one ContentService run. Failed attempts stay on
// screen after it quits so the operator sees why a retry happened.
type generateProgressModel struct {
	spinner  spinner.Model
	generate tea.Cmd
	failed   []application.AttemptReport
	message  domain.Message
	err      error
	done     bool
}

func newGenerateProgressModel(generate tea.Cmd) generateProgressModel {
	return generateProgressModel{
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(progressSpinnerStyle)),
		generate: generate,
	}
}

func (m generateProgressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.generate)
}

func (m generateProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case attemptMsg:
		if msg.Result != application.AttemptOK {
			m.failed = append(m.failed, application.AttemptReport(msg))
		}
		return m, nil
	case generatedMsg:
		m.done = true
		m.message = msg.message
		m.err = msg.err
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m generateProgressModel) View() string {
	var b strings.Builder
	for _, report := range m.failed {
		b.WriteString(progressRetryStyle.Render(fmt.Sprintf("attempt %d/%d failed (%s)", report.Attempt, report.MaxAttempts, attemptLabel(report.Result))))
		b.WriteString("\n")
	}
	if m.done {
		return b.String()
	}

	status := "Generating message..."
	if n := len(m.failed); n > 0 {
		last := m.failed[n-1]
		status = fmt.Sprintf("Generating message, attempt %d/%d", last.Attempt+1, last.MaxAttempts)
		if last.Backoff > 0 {
			status += fmt.Sprintf(" after %s pause", last.Backoff)
		}
	}
	b.WriteString(m.spinner.View() + " " + status)
	return b.String()
}

func attemptLabel(result string) string {
	switch result {
	case application.AttemptTooLong:
		return "too long"
	case application.AttemptEmpty:
		return "empty reply"
	default:
		return "error"
	}
}

type observedGenerate func(context.Context, application.AttemptObserver) (domain.Message, error)

// runGenerateProgress runs generate under a spinner, feeding each attempt
// report into the view as it happens.
func runGenerateProgress(ctx context.Context, output io.Writer, generate observedGenerate) (domain.Message, error) {
	var p *tea.Program
	generateCmd := func() tea.Msg {
		message, err := generate(ctx, func(report application.AttemptReport) {
			p.Send(attemptMsg(report))
		})
		return generatedMsg{message: message, err: err}
	}

	p = tea.NewProgram(
		newGenerateProgressModel(generateCmd),
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	)

	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}

	result, ok := finalModel.(generateProgressModel)
	if !ok {
		return "", fmt.Errorf("unexpected final progress model type %T", finalModel)
	}

	return result.message, result.err
}
