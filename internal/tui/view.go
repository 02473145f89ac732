package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/jask/uidclone/internal/clone"
	"github.com/jask/uidclone/internal/tag"
)

func (a *App) View() string {
	screen := a.renderMain()
	if a.modal != modalNone {
		return overlayCenter(screen, a.renderModal(), a.width, a.height)
	}
	return screen
}

func (a *App) renderMain() string {
	parts := []string{
		a.renderHeader(),
		a.renderTop(),
		sectionStyle.Width(a.innerWidth()).Render(a.logView.View()),
		a.renderStatus(),
		a.help.View(a.keys),
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// layout sizes the status log to whatever the fixed sections leave over.
func (a *App) layout() {
	w := a.innerWidth()
	a.logView.Width = w - 2
	used := lipgloss.Height(a.renderHeader()) +
		lipgloss.Height(a.renderTop()) +
		lipgloss.Height(a.help.View(a.keys)) +
		1 + // status line
		2 // log border
	h := a.height - used
	if h < 3 {
		h = 3
	}
	a.logView.Height = h
	a.logView.GotoBottom()
}

func (a *App) innerWidth() int {
	w := a.width - 2
	if w < 40 {
		w = 40
	}
	return w
}

func (a *App) renderHeader() string {
	state := lipgloss.NewStyle().Foreground(stateColor(a.session.State)).Render("[" + a.session.State.String() + "]")
	return titleStyle.Render("Clone UID to magic gen2 tag") + "  " + state
}

func (a *App) renderTop() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		sectionStyle.Width(a.innerWidth()).Render(a.renderForm()),
		sectionStyle.Width(a.innerWidth()).Render(a.renderTags()),
	)
}

func (a *App) renderForm() string {
	rows := []string{a.formRow("UID", focusUID, a.uid.View())}
	if a.showOptions {
		keyA, keyB := "(•) A  ( ) B", "( ) A  (•) B"
		sel := keyA
		if a.useKeyB {
			sel = keyB
		}
		rows = append(rows,
			a.formRow("Block 0 rest", focusTail, a.tail.View()),
			a.formRow("Write key", focusKey, a.keyIn.View()),
			labelStyle.Render("Key type")+textStyle.Render(sel),
		)
	} else {
		rows = append(rows, dimStyle.Render(fmt.Sprintf("options hidden, writing with key %s (ctrl+o to show)", tag.KeyName(a.useKeyB))))
	}
	if a.session.State != clone.StateInitial {
		rows = append(rows, labelStyle.Render("Block 0")+textStyle.Render(a.session.Block0.String()))
	}
	return strings.Join(rows, "\n")
}

func (a *App) formRow(label string, f focusArea, input string) string {
	style := labelStyle
	if a.focus == f {
		style = focusStyle
	}
	return style.Render(label) + input
}

func (a *App) renderTags() string {
	tags := a.field.Tags()
	if len(tags) == 0 {
		return dimStyle.Render("no virtual tags")
	}
	maxW := a.innerWidth() - 4
	lines := make([]string, 0, len(tags)+1)
	lines = append(lines, dimStyle.Render("Tags in range (↑/↓ select, ctrl+t present)"))
	for i, v := range tags {
		cursor := "  "
		if i == a.tagCursor {
			cursor = cursorStyle.Render("> ")
		}
		kind := dimStyle.Render("original")
		if v.Magic() {
			kind = magicStyle.Render("magic gen2")
		}
		mark := " "
		if v == a.presented {
			mark = "◉"
		}
		line := fmt.Sprintf("%s%s %-20s %-20s %s", cursor, mark, v.Name(), v.UID().String(), kind)
		lines = append(lines, ansi.Truncate(line, maxW, "…"))
	}
	return strings.Join(lines, "\n")
}

func (a *App) renderStatus() string {
	switch {
	case a.notice != "":
		return noticeStyle.Render(ansi.Truncate(a.notice, a.innerWidth(), "…"))
	case strings.HasPrefix(a.status, "error:"):
		return errorStyle.Render(ansi.Truncate(a.status, a.innerWidth(), "…"))
	case a.writing:
		return statusStyle.Render("writing block 0...")
	default:
		return statusStyle.Render(ansi.Truncate(a.status, a.innerWidth(), "…"))
	}
}

func (a *App) renderModal() string {
	switch a.modal {
	case modalInfo:
		p := infoPages[a.infoPage]
		footer := dimStyle.Render(fmt.Sprintf("page %d/%d  ←/→ more  esc close", a.infoPage+1, len(infoPages)))
		return modalStyle.Render(titleStyle.Render(p.title) + "\n\n" + textStyle.Render(p.body) + "\n\n" + footer)
	case modalHistory:
		return modalStyle.Render(titleStyle.Render("Recent clone attempts") + "\n\n" + a.renderHistory() + "\n\n" + dimStyle.Render("esc close"))
	case modalConfirmWipe:
		return modalStyle.Render(titleStyle.Render("Clear history?") + "\n\n" +
			textStyle.Render("Deletes every recorded scan and clone attempt.") + "\n\n" +
			dimStyle.Render("y clear  n keep"))
	}
	return ""
}

func (a *App) renderHistory() string {
	if len(a.history) == 0 {
		return dimStyle.Render("no attempts yet")
	}
	lines := make([]string, 0, len(a.history))
	for _, at := range a.history {
		confirmed := "unchecked"
		if at.Confirmed != nil {
			confirmed = "mismatch"
			if *at.Confirmed {
				confirmed = "confirmed"
			}
		}
		line := fmt.Sprintf("%s  %-15s %-9s %s -> %s  key %s  %s",
			at.CreatedAt.Local().Format("01-02 15:04"),
			at.Result, confirmed, at.TagUID, at.SourceUID, at.KeyType, at.TagName)
		lines = append(lines, ansi.Truncate(line, a.innerWidth()-6, "…"))
	}
	return strings.Join(lines, "\n")
}
