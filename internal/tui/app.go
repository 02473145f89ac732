package tui

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/uidclone/internal/block0"
	"github.com/jask/uidclone/internal/clone"
	"github.com/jask/uidclone/internal/config"
	"github.com/jask/uidclone/internal/service"
	"github.com/jask/uidclone/internal/tag"
)

// App is the clone screen. The workflow itself lives in clone.Session and
// is only ever replaced inside Update.
type App struct {
	ctx      context.Context
	cfg      config.Config
	services Services
	field    *tag.Field
	log      *slog.Logger
	random   io.Reader
	readClip func() (string, error)

	session   clone.Session
	presented *tag.Virtual
	writing   bool
	attemptID string

	uid         textinput.Model
	tail        textinput.Model
	keyIn       textinput.Model
	useKeyB     bool
	showOptions bool
	focus       focusArea
	tagCursor   int

	lines   []string
	logView viewport.Model
	help    help.Model
	keys    keyMap

	status   string
	notice   string
	modal    modalState
	infoPage int
	history  historyMsg

	width  int
	height int
}

type Services struct {
	Cloner      *service.Cloner
	Maintenance *service.MaintenanceService
}

type focusArea int

const (
	focusUID focusArea = iota
	focusTail
	focusKey
)

type modalState int

const (
	modalNone modalState = iota
	modalInfo
	modalHistory
	modalConfirmWipe
)

const historyLimit = 15

func New(ctx context.Context, cfg config.Config, field *tag.Field, services Services, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	if services.Cloner == nil {
		services.Cloner = &service.Cloner{Log: logger}
	}
	if field == nil {
		field = tag.DefaultField()
	}
	a := &App{
		ctx:      ctx,
		cfg:      cfg,
		services: services,
		field:    field,
		log:      logger.With("component", "tui"),
		random:   rand.Reader,
		readClip: clipboard.ReadAll,
		session:  clone.NewSession(),
		uid:      newInput("e.g. 04112233", 20),
		tail:     newInput(block0.DefaultTail, 32),
		keyIn:    newInput(block0.DefaultKey, 12),
		useKeyB:  cfg.Clone.UseKeyB,
		logView:  viewport.New(60, 8),
		help:     help.New(),
		keys:     defaultKeyMap(),
		width:    80,
		height:   24,
	}
	a.tail.SetValue(orDefault(cfg.Clone.Tail, block0.DefaultTail))
	a.keyIn.SetValue(orDefault(cfg.Clone.Key, block0.DefaultKey))
	a.uid.Focus()
	a.appendLog("Enter a UID or present the original tag to read it.")
	a.layout()
	return a
}

func newInput(placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Width = limit + 1
	return ti
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func (a *App) Init() tea.Cmd {
	return textinput.Blink
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
		a.help.Width = m.Width
		a.layout()
		return a, nil
	case tea.KeyMsg:
		return a.handleKey(m)
	case writeDoneMsg:
		a.writing = false
		a.attemptID = m.report.AttemptID
		cmd := a.apply(clone.WriteFinished{Result: m.report.Result})
		if m.err != nil {
			a.status = "error: " + m.err.Error()
		}
		return a, cmd
	case pasteMsg:
		a.uid.SetValue(strings.TrimSpace(string(m)))
		a.status = "UID pasted from clipboard"
		return a, nil
	case historyMsg:
		a.history = m
		a.modal = modalHistory
		return a, nil
	case statusMsg:
		a.status = string(m)
		return a, nil
	case errMsg:
		a.log.Error("command failed", "error", m.error)
		a.status = "error: " + m.Error()
		return a, nil
	}
	return a, a.updateFocused(msg)
}

func (a *App) handleKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(m, a.keys.Quit) {
		return a, tea.Quit
	}
	if a.modal != modalNone {
		return a, a.handleModalKey(m)
	}

	switch {
	case key.Matches(m, a.keys.Help):
		a.help.ShowAll = !a.help.ShowAll
		a.layout()
	case key.Matches(m, a.keys.Next):
		a.cycleFocus(1)
	case key.Matches(m, a.keys.Prev):
		a.cycleFocus(-1)
	case key.Matches(m, a.keys.Up):
		if a.tagCursor > 0 {
			a.tagCursor--
		}
	case key.Matches(m, a.keys.Down):
		if a.tagCursor < len(a.field.Tags())-1 {
			a.tagCursor++
		}
	case key.Matches(m, a.keys.Calculate):
		return a, a.calculate()
	case key.Matches(m, a.keys.Present):
		return a, a.present()
	case key.Matches(m, a.keys.Random):
		a.randomUID()
	case key.Matches(m, a.keys.Paste):
		return a, a.pasteCmd()
	case key.Matches(m, a.keys.Options):
		a.setOptions(!a.showOptions)
	case key.Matches(m, a.keys.KeyB):
		a.useKeyB = !a.useKeyB
		a.status = "Writing with key " + tag.KeyName(a.useKeyB)
	case key.Matches(m, a.keys.Reset):
		a.attemptID = ""
		cmd := a.apply(clone.Reset{})
		a.appendLog("Started over")
		return a, cmd
	case key.Matches(m, a.keys.Info):
		a.modal = modalInfo
		a.infoPage = 0
	case key.Matches(m, a.keys.History):
		return a, a.historyCmd()
	case key.Matches(m, a.keys.Wipe):
		a.modal = modalConfirmWipe
	case m.Type == tea.KeyPgUp || m.Type == tea.KeyPgDown:
		var cmd tea.Cmd
		a.logView, cmd = a.logView.Update(m)
		return a, cmd
	default:
		return a, a.updateFocused(m)
	}
	return a, nil
}

func (a *App) handleModalKey(m tea.KeyMsg) tea.Cmd {
	switch a.modal {
	case modalInfo:
		switch {
		case key.Matches(m, a.keys.Close):
			a.modal = modalNone
		case key.Matches(m, a.keys.Info), m.Type == tea.KeyRight, m.Type == tea.KeyTab:
			a.infoPage = (a.infoPage + 1) % len(infoPages)
		case m.Type == tea.KeyLeft, m.Type == tea.KeyShiftTab:
			a.infoPage = (a.infoPage + len(infoPages) - 1) % len(infoPages)
		}
	case modalHistory:
		if key.Matches(m, a.keys.Close) || key.Matches(m, a.keys.History) {
			a.modal = modalNone
		}
	case modalConfirmWipe:
		switch m.String() {
		case "y", "Y":
			a.modal = modalNone
			return a.wipeCmd()
		case "n", "N", "esc":
			a.modal = modalNone
			a.status = "history kept"
		}
	}
	return nil
}

func (a *App) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.focus {
	case focusTail:
		a.tail, cmd = a.tail.Update(msg)
	case focusKey:
		a.keyIn, cmd = a.keyIn.Update(msg)
	default:
		a.uid, cmd = a.uid.Update(msg)
	}
	return cmd
}

func (a *App) cycleFocus(dir int) {
	n := 1
	if a.showOptions {
		n = 3
	}
	a.setFocus(focusArea((int(a.focus) + dir + n) % n))
}

func (a *App) setFocus(f focusArea) {
	a.focus = f
	a.uid.Blur()
	a.tail.Blur()
	a.keyIn.Blur()
	switch f {
	case focusTail:
		a.tail.Focus()
	case focusKey:
		a.keyIn.Focus()
	default:
		a.uid.Focus()
	}
}

func (a *App) setOptions(show bool) {
	a.showOptions = show
	if !show && a.focus != focusUID {
		a.setFocus(focusUID)
	}
	a.layout()
}

// apply runs one workflow transition and turns its effects into commands.
func (a *App) apply(ev clone.Event) tea.Cmd {
	prev := a.session.State
	next, effects := clone.Transition(a.session, ev)
	a.session = next
	a.notice = ""
	if prev != next.State {
		a.log.Debug("state changed", "from", prev.String(), "to", next.State.String())
	}

	var cmds []tea.Cmd
	for _, e := range effects {
		if cmd := a.run(e); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return tea.Batch(cmds...)
}

func (a *App) run(e clone.Effect) tea.Cmd {
	switch e := e.(type) {
	case clone.Log:
		a.appendLog(e.Text)
	case clone.Notice:
		a.notice = e.Text
	case clone.FillUID:
		a.uid.SetValue(e.UID)
	case clone.HideOptions:
		a.setOptions(false)
	case clone.Write:
		return a.writeCmd(e)
	}
	return nil
}

func (a *App) calculate() tea.Cmd {
	form := clone.Form{
		UID:     a.uid.Value(),
		Tail:    a.tail.Value(),
		Key:     a.keyIn.Value(),
		UseKeyB: a.useKeyB,
	}
	return a.apply(clone.Calculate{Form: form})
}

// present holds the selected virtual tag to the reader.
func (a *App) present() tea.Cmd {
	tags := a.field.Tags()
	if len(tags) == 0 {
		a.notice = "No tags in the field"
		return nil
	}
	if a.writing {
		a.notice = "Reader busy: a write is still running"
		return nil
	}
	if a.tagCursor >= len(tags) {
		a.tagCursor = len(tags) - 1
	}
	v := tags[a.tagCursor]
	a.presented = v

	prev := a.session.State
	uid := v.UID()
	cmds := []tea.Cmd{
		a.apply(clone.TagScanned{UID: uid}),
		a.recordScanCmd(v.Name(), uid, prev),
	}
	if prev == clone.StateCloned {
		cmds = append(cmds, a.confirmCmd(a.attemptID, a.session.State == clone.StateInitial))
	}
	return tea.Batch(cmds...)
}

func (a *App) randomUID() {
	uid, err := block0.RandomUID(a.random)
	if err != nil {
		a.status = "error: " + err.Error()
		return
	}
	a.uid.SetValue(block0.FormatHex(uid))
	a.status = "Random UID generated"
}

func (a *App) appendLog(text string) {
	a.lines = append(a.lines, "• "+text)
	a.logView.SetContent(strings.Join(a.lines, "\n"))
	a.logView.GotoBottom()
}

// commands

func (a *App) writeCmd(w clone.Write) tea.Cmd {
	t := a.presented
	if t == nil {
		return nil
	}
	a.writing = true
	cloner := a.services.Cloner
	ctx := a.ctx
	return func() tea.Msg {
		rep, err := cloner.Write(ctx, t, t.Name(), w)
		return writeDoneMsg{report: rep, err: err}
	}
}

func (a *App) recordScanCmd(name string, uid tag.UID, state clone.State) tea.Cmd {
	cloner := a.services.Cloner
	ctx := a.ctx
	return func() tea.Msg {
		if err := cloner.RecordScan(ctx, name, uid, state); err != nil {
			return errMsg{err}
		}
		return nil
	}
}

func (a *App) confirmCmd(attemptID string, ok bool) tea.Cmd {
	cloner := a.services.Cloner
	ctx := a.ctx
	return func() tea.Msg {
		if err := cloner.Confirm(ctx, attemptID, ok); err != nil {
			return errMsg{err}
		}
		return nil
	}
}

func (a *App) pasteCmd() tea.Cmd {
	read := a.readClip
	return func() tea.Msg {
		text, err := read()
		if err != nil {
			return errMsg{fmt.Errorf("read clipboard: %w", err)}
		}
		if strings.TrimSpace(text) == "" {
			return statusMsg("clipboard is empty")
		}
		return pasteMsg(text)
	}
}

func (a *App) historyCmd() tea.Cmd {
	cloner := a.services.Cloner
	ctx := a.ctx
	return func() tea.Msg {
		list, err := cloner.History(ctx, historyLimit)
		if err != nil {
			return errMsg{err}
		}
		return historyMsg(list)
	}
}

func (a *App) wipeCmd() tea.Cmd {
	maint := a.services.Maintenance
	ctx := a.ctx
	return func() tea.Msg {
		if maint == nil {
			return errMsg{fmt.Errorf("maintenance not configured")}
		}
		if err := maint.Reset(ctx); err != nil {
			return errMsg{err}
		}
		return statusMsg("history cleared")
	}
}
