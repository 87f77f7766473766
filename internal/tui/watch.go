// Package tui is a terminal status watcher for one proposal.
package tui

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sujalbistaa/proposal/pkg/client"
)

// PollInterval matches the refresh rate of the status page.
const PollInterval = 30 * time.Second

// StatusFetcher is satisfied by *client.Client.
type StatusFetcher interface {
	GetStatus(ctx context.Context, id string) (*client.Status, error)
}

type statusLoadedMsg struct {
	status *client.Status
	err    error
}

// pollTickMsg carries the generation it was scheduled for; stale ticks are ignored.
type pollTickMsg struct{ gen int }

type copyResultMsg struct{ err error }

// WatchModel shows a proposal's status and polls until it is answered.
type WatchModel struct {
	fetcher  StatusFetcher
	id       string
	interval time.Duration

	status      *client.Status
	err         error
	loading     bool
	gen         int
	lastChecked time.Time
	flash       string

	// now and copy are swapped in tests.
	now  func() time.Time
	copy func(string) error
}

func NewWatchModel(fetcher StatusFetcher, id string) WatchModel {
	return WatchModel{
		fetcher:  fetcher,
		id:       id,
		interval: PollInterval,
		loading:  true,
		now:      time.Now,
		copy:     clipboard.WriteAll,
	}
}

func (m WatchModel) Init() tea.Cmd {
	return m.load()
}

func (m WatchModel) load() tea.Cmd {
	fetcher, id := m.fetcher, m.id
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		s, err := fetcher.GetStatus(ctx, id)
		return statusLoadedMsg{status: s, err: err}
	}
}

func (m WatchModel) tick() tea.Cmd {
	gen := m.gen
	return tea.Tick(m.interval, func(time.Time) tea.Msg {
		return pollTickMsg{gen: gen}
	})
}

// Polling reports whether another fetch is scheduled.
func (m WatchModel) Polling() bool {
	if m.status != nil && m.status.Answered() {
		return false
	}
	return !client.IsStatus(m.err, http.StatusNotFound) && !client.IsStatus(m.err, http.StatusGone)
}

func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case statusLoadedMsg:
		m.loading = false
		m.lastChecked = m.now()
		m.err = msg.err
		if msg.err == nil {
			m.status = msg.status
		}
		m.gen++
		if !m.Polling() {
			return m, nil
		}
		return m, m.tick()

	case pollTickMsg:
		if msg.gen != m.gen || !m.Polling() {
			return m, nil
		}
		m.loading = true
		return m, m.load()

	case copyResultMsg:
		if msg.err != nil {
			m.flash = "copy failed: " + msg.err.Error()
		} else {
			m.flash = "link copied"
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			m.loading = true
			m.flash = ""
			return m, m.load()
		case "c":
			if m.status == nil || m.status.RevealLink == "" {
				return m, nil
			}
			link, copyFn := m.status.RevealLink, m.copy
			return m, func() tea.Msg {
				return copyResultMsg{err: copyFn(link)}
			}
		}
	}
	return m, nil
}

func (m WatchModel) View() string {
	var b strings.Builder

	switch {
	case m.status == nil && m.err != nil:
		b.WriteString(titleStyle.Render("Proposal " + m.id))
		b.WriteString("\n\n")
		b.WriteString(errorStyle.Render(describeError(m.err)))
	case m.status == nil:
		b.WriteString(mutedStyle.Render("Loading proposal " + m.id + "..."))
	default:
		b.WriteString(m.statusView())
		if m.err != nil {
			b.WriteString("\n")
			b.WriteString(errorStyle.Render(describeError(m.err)))
		}
	}

	b.WriteString("\n\n")
	if m.flash != "" {
		b.WriteString(labelStyle.Render(m.flash))
		b.WriteString("\n")
	}
	b.WriteString(mutedStyle.Render(m.footer()))
	return boxStyle.Render(b.String()) + "\n"
}

func (m WatchModel) statusView() string {
	s := m.status
	var b strings.Builder

	title := fmt.Sprintf("%s %s proposal to %s", s.Config.Emoji, s.Config.Title, s.RecipientName)
	b.WriteString(titleStyle.Render(strings.TrimSpace(title)))
	b.WriteString("\n\n")

	switch s.Response {
	case "yes":
		b.WriteString(yesStyle.Render("They said YES!"))
	case "no":
		b.WriteString(noStyle.Render("They said no."))
	default:
		b.WriteString(labelStyle.Render("Waiting for response..."))
	}
	if s.RespondedAt != nil {
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render("Responded on " + s.RespondedAt.UTC().Format("Jan 2, 2006 at 15:04 UTC")))
	}

	if s.IsAnonymous {
		b.WriteString("\n\n")
		b.WriteString(labelStyle.Render("Guesses: "))
		if len(s.Guesses) == 0 {
			b.WriteString(mutedStyle.Render("none yet"))
		} else {
			b.WriteString(strings.Join(s.Guesses, ", "))
		}
		if s.GuessedCorrectly {
			b.WriteString(yesStyle.Render("  (guessed you)"))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(mutedStyle.Render(s.TimeRemaining))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Link: "))
	b.WriteString(s.RevealLink)
	return b.String()
}

func (m WatchModel) footer() string {
	parts := []string{"c copy link", "r refresh", "q quit"}
	switch {
	case m.loading:
		parts = append([]string{"checking..."}, parts...)
	case !m.lastChecked.IsZero() && m.Polling():
		parts = append([]string{"checked " + m.lastChecked.Format("15:04:05")}, parts...)
	}
	return strings.Join(parts, " · ")
}

func describeError(err error) string {
	switch {
	case client.IsStatus(err, http.StatusNotFound):
		return "Proposal not found."
	case client.IsStatus(err, http.StatusGone):
		return "This proposal has expired."
	default:
		return "error: " + err.Error()
	}
}

// Watch runs the status watcher until the user quits.
func Watch(fetcher StatusFetcher, id string) error {
	_, err := tea.NewProgram(NewWatchModel(fetcher, id)).Run()
	return err
}
