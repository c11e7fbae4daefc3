// Package ui implements the terminal story player: a viewport over the
// story text with the narrated sentence highlighted, a progress bar,
// and scrub controls, all driven by polling the playback controller's
// snapshot.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize/english"
	"github.com/fsnotify/fsnotify"
	"github.com/muesli/reflow/wordwrap"

	"github.com/dgnsrekt/storytime/playback"
	"github.com/dgnsrekt/storytime/playback/engines"
	"github.com/dgnsrekt/storytime/scene"
	"github.com/dgnsrekt/storytime/story"
)

const (
	statusBarHeight = 1
	headerHeight    = 2
	footerHeight    = 2 // progress bar + status bar

	snapshotPollInterval = 100 * time.Millisecond
	statusMessageTimeout = 2 * time.Second

	// One left/right keypress moves the scrub position by this much.
	scrubStep = 0.02
)

type (
	tickMsg          time.Time
	reloadMsg        struct{}
	statusTimeoutMsg struct{}
	sessionMsg       struct {
		ctrl *playback.Controller
		err  error
	}
)

// PlayerModel is the bubbletea model for one story playback session.
type PlayerModel struct {
	path        string
	story       story.Story
	cfg         playback.Config
	engineName  string
	durOverride int

	ctrl *playback.Controller
	snap playback.Snapshot

	viewport viewport.Model
	progress progress.Model

	width  int
	height int
	ready  bool

	scrubbing bool
	fraction  float64

	showHelp bool

	statusMessage string
	statusTimer   *time.Timer

	watcher *fsnotify.Watcher

	err error
}

// NewPlayer loads the story at path and builds the player model. The
// playback session itself starts from Init so a failed engine does not
// block program construction. durationSeconds, when positive,
// overrides the story file's narration budget.
func NewPlayer(path, engineName string, cfg playback.Config, durationSeconds int) (PlayerModel, error) {
	s, err := story.Load(path)
	if err != nil {
		return PlayerModel{}, err
	}
	if strings.TrimSpace(s.Content) == "" {
		return PlayerModel{}, playback.ErrNoContent
	}
	if durationSeconds > 0 {
		s.Duration = durationSeconds
	}

	m := PlayerModel{
		path:       path,
		story:      s,
		cfg:        cfg,
		engineName: engineName,
		durOverride: durationSeconds,
		viewport:   viewport.New(0, 0),
		progress:   progress.New(progress.WithGradient("#1C8760", "#89F0CB")),
	}
	m.initWatcher()
	return m, nil
}

func (m *PlayerModel) initWatcher() {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Debug("could not create file watcher", "err", err)
		return
	}
	if err := watcher.Add(m.path); err != nil {
		log.Debug("could not watch story file", "path", m.path, "err", err)
		_ = watcher.Close()
		return
	}
	m.watcher = watcher
}

// startSession builds the controller and engine for the current story.
func (m PlayerModel) startSession() tea.Cmd {
	return func() tea.Msg {
		ctrl := playback.NewController(playback.Passage{
			Text:           m.story.Content,
			TargetDuration: m.story.TargetDuration(),
		}, m.cfg)

		engine, err := engines.New(m.engineName, m.cfg, ctrl.Deliver)
		if err != nil {
			return sessionMsg{err: err}
		}
		ctrl.SetEngine(engine)
		if err := ctrl.Start(); err != nil {
			return sessionMsg{err: err}
		}
		return sessionMsg{ctrl: ctrl}
	}
}

func (m PlayerModel) tick() tea.Cmd {
	return tea.Tick(snapshotPollInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m PlayerModel) watchFile() tea.Msg {
	if m.watcher == nil {
		return nil
	}
	for {
		select {
		case ev, ok := <-m.watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				log.Debug("story file changed", "path", ev.Name)
				return reloadMsg{}
			}
		case err, ok := <-m.watcher.Errors:
			if !ok {
				return nil
			}
			log.Debug("watcher error", "err", err)
		}
	}
}

// Init starts the playback session and the snapshot poll loop.
func (m PlayerModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.startSession(), m.tick()}
	if m.watcher != nil {
		cmds = append(cmds, m.watchFile)
	}
	return tea.Batch(cmds...)
}

// Update handles keys, snapshot polling, reloads, and resize.
func (m PlayerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.setSize(msg.Width, msg.Height)
		m.ready = true
		m.viewport.SetContent(m.renderContent())

	case sessionMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.ctrl = msg.ctrl
		m.snap = m.ctrl.Snapshot()
		m.viewport.SetContent(m.renderContent())

	case tickMsg:
		if m.ctrl != nil {
			prev := m.snap
			m.snap = m.ctrl.Snapshot()
			if prev.ActiveSentence != m.snap.ActiveSentence || prev.Phase != m.snap.Phase {
				m.viewport.SetContent(m.renderContent())
			}
		}
		cmds = append(cmds, m.tick())

	case reloadMsg:
		return m.reload()

	case statusTimeoutMsg:
		m.statusMessage = ""
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m PlayerModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		m.shutdown()
		return m, tea.Quit

	case " ":
		if m.ctrl == nil || m.scrubbing {
			return m, nil
		}
		if m.snap.Phase == playback.PhasePlaying {
			m.ctrl.Pause()
		} else {
			m.ctrl.Play()
		}

	case "s":
		if m.ctrl == nil || m.snap.Phase.Terminal() {
			return m, nil
		}
		if m.scrubbing {
			m.ctrl.SeekEnd()
			m.scrubbing = false
		} else {
			m.fraction = m.snap.Progress
			m.ctrl.SeekBegin()
			m.scrubbing = true
		}

	case "left", "h":
		if m.scrubbing {
			m.fraction = clampFraction(m.fraction - scrubStep)
			m.ctrl.SeekUpdate(m.fraction)
		}

	case "right", "l":
		if m.scrubbing {
			m.fraction = clampFraction(m.fraction + scrubStep)
			m.ctrl.SeekUpdate(m.fraction)
		}

	case "c":
		cmd := m.copyPrompts()
		return m, cmd

	case "r":
		return m.reload()

	case "?":
		m.showHelp = !m.showHelp
		m.setSize(m.width, m.height)

	case "g", "home":
		m.viewport.GotoTop()

	case "G", "end":
		m.viewport.GotoBottom()

	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

// copyPrompts puts the story's illustration prompts on the clipboard.
func (m *PlayerModel) copyPrompts() tea.Cmd {
	scenes := scene.NewExtractor(scene.DefaultOptions(), scene.DefaultComposer()).Extract(m.story)
	if len(scenes) == 0 {
		return m.showStatus("Nothing to copy")
	}
	prompts := make([]string, len(scenes))
	for i, sc := range scenes {
		prompts[i] = sc.Prompt
	}
	if err := clipboard.WriteAll(strings.Join(prompts, "\n\n")); err != nil {
		log.Debug("clipboard write failed", "err", err)
		return m.showStatus("Copy failed")
	}
	return m.showStatus(fmt.Sprintf("Copied %s", english.Plural(len(scenes), "scene prompt", "")))
}

func (m *PlayerModel) showStatus(text string) tea.Cmd {
	m.statusMessage = text
	if m.statusTimer != nil {
		m.statusTimer.Stop()
	}
	m.statusTimer = time.NewTimer(statusMessageTimeout)
	timer := m.statusTimer
	return func() tea.Msg {
		<-timer.C
		return statusTimeoutMsg{}
	}
}

// reload re-reads the story file and replaces the playback session.
func (m PlayerModel) reload() (tea.Model, tea.Cmd) {
	s, err := story.Load(m.path)
	if err != nil {
		log.Warn("story reload failed", "path", m.path, "err", err)
		return m, m.showStatus("Reload failed")
	}
	if m.durOverride > 0 {
		s.Duration = m.durOverride
	}
	if m.ctrl != nil {
		m.ctrl.Dismiss()
		m.ctrl = nil
	}
	m.story = s
	m.snap = playback.Snapshot{}
	m.scrubbing = false
	m.viewport.SetContent(m.renderContent())
	cmds := []tea.Cmd{m.startSession(), m.showStatus("Story reloaded")}
	if m.watcher != nil {
		cmds = append(cmds, m.watchFile)
	}
	return m, tea.Batch(cmds...)
}

func (m *PlayerModel) shutdown() {
	if m.ctrl != nil {
		m.ctrl.Dismiss()
		m.ctrl = nil
	}
	if m.watcher != nil {
		_ = m.watcher.Close()
		m.watcher = nil
	}
}

func (m *PlayerModel) setSize(w, h int) {
	m.width = w
	m.height = h
	m.progress.Width = w - 4

	vh := h - headerHeight - footerHeight - statusBarHeight
	if m.showHelp {
		vh -= strings.Count(m.helpView(), "\n") + 1
	}
	if vh < 0 {
		vh = 0
	}
	m.viewport.Width = w
	m.viewport.Height = vh
	m.viewport.SetContent(m.renderContent())
}

// renderContent wraps the story text with the narrated sentence
// highlighted. Sentences before the active one are dimmed so a glance
// shows how far the narration has come.
func (m PlayerModel) renderContent() string {
	var sentences []string
	if m.ctrl != nil {
		sentences = m.ctrl.Sentences()
	} else {
		sentences = []string{m.story.Content}
	}

	active := -1
	if m.ctrl != nil {
		active = m.snap.ActiveSentence
	}

	parts := make([]string, len(sentences))
	for i, s := range sentences {
		switch {
		case i == active:
			parts[i] = highlightStyle.Render(s)
		case active >= 0 && i < active:
			parts[i] = dimStyle.Render(s)
		default:
			parts[i] = s
		}
	}

	width := m.width - 2
	if width < 1 {
		width = 78
	}
	return wordwrap.String(strings.Join(parts, " "), width)
}

// View renders the full player chrome.
func (m PlayerModel) View() string {
	if m.err != nil {
		return fmt.Sprintf("\n  %s\n\n  press q to quit\n", m.err)
	}
	if !m.ready {
		return "\n  loading..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.story.Title))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render(fmt.Sprintf("%s, %s",
		english.Plural(m.story.WordCount(), "word", ""),
		m.story.TargetDuration())))
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString("  " + m.progress.ViewAs(m.progressFraction()))
	b.WriteString("\n")
	b.WriteString(m.statusBarView())
	if m.showHelp {
		b.WriteString("\n")
		b.WriteString(m.helpView())
	}
	return b.String()
}

func (m PlayerModel) progressFraction() float64 {
	if m.scrubbing {
		return m.fraction
	}
	return m.snap.Progress
}

func (m PlayerModel) statusBarView() string {
	var badge string
	if m.scrubbing {
		badge = scrubStyle.Render("SCRUB")
	} else {
		badge = phaseStyle.Render(strings.ToUpper(m.snap.Phase.String()))
	}

	timing := fmt.Sprintf(" %s / %s (%s left) ",
		formatDuration(m.snap.Elapsed), formatDuration(m.snap.Target),
		formatDuration(m.snap.Remaining()))

	note := m.statusMessage
	if note == "" {
		note = "? help"
	}
	noteRendered := " " + note + " "
	if m.statusMessage != "" {
		noteRendered = statusBarMessageStyle.Render(noteRendered)
	}

	pad := m.width - lipgloss.Width(badge) - lipgloss.Width(timing) - lipgloss.Width(noteRendered)
	if pad < 0 {
		pad = 0
	}
	return badge + statusBarStyle.Render(timing+strings.Repeat(" ", pad)) + noteRendered
}

func (m PlayerModel) helpView() string {
	rows := []string{
		"space    play/pause",
		"s        start/finish scrubbing",
		"h/l ←/→  move scrub position",
		"c        copy illustration prompts",
		"r        reload story file",
		"g/G      go to top/bottom",
		"q        quit",
	}
	var b strings.Builder
	for _, r := range rows {
		b.WriteString(helpStyle.Render("  " + r))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%d:%02d", m, s)
}

func clampFraction(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
