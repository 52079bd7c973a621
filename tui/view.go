package tui

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"
	"github.com/subgate-cli/subgate/color"
	"github.com/subgate-cli/subgate/icon"
	"github.com/subgate-cli/subgate/media"
	"github.com/subgate-cli/subgate/orchestrator"
	"github.com/subgate-cli/subgate/style"
)

var (
	listExtraPaddingStyle = lipgloss.NewStyle().Padding(1, 2, 1, 0)
	paddingStyle          = lipgloss.NewStyle().Padding(1, 2)
)

const overviewLines = 3

func (b *statefulBubble) View() string {
	var output string

	switch b.state {
	case waitingState:
		output = b.viewWaiting()
	case rawState:
		output = b.viewRaw()
	case sessionState:
		output = b.viewSession()
	case errorState:
		output = b.viewError()
	default:
		output = "Unknown state"
	}

	return b.notifier.View(output)
}

func (b *statefulBubble) viewWaiting() string {
	lines := []string{
		style.Title("Subgate"),
		"",
		b.spinnerC.View() + " Waiting for a subscription request",
	}
	if b.options.Address != "" {
		lines = append(lines, "", style.Faint("Open the CMS through ")+style.Fg(color.Cyan)("http://"+b.options.Address))
	}
	if b.newBuild > 0 {
		lines = append(lines, "", style.Fg(style.SuccessColor)(fmt.Sprintf("%s CMS build %d is available", icon.Get(icon.Info), b.newBuild)))
	}
	return b.renderLines(true, lines)
}

func (b *statefulBubble) viewRaw() string {
	lines := []string{
		style.ErrorTitle("Unrecognized request"),
		"",
	}

	if c := b.capture; c != nil {
		lines = append(lines,
			style.Bold(c.Method)+" "+style.Truncate(b.width)(c.URL),
			style.Faint("encoding: "+c.Encoding),
			"",
		)
		lines = append(lines, strings.Split(b.prettyBody(), "\n")...)
	}

	return b.renderLines(true, lines)
}

// prettyBody indents JSON bodies and caps the body to the screen.
func (b *statefulBubble) prettyBody() string {
	c := b.capture
	if c.Body == "" {
		return style.Faint("no body")
	}

	body := c.Body
	var buf bytes.Buffer
	if json.Indent(&buf, []byte(body), "", "  ") == nil {
		body = buf.String()
	}

	lines := strings.Split(body, "\n")
	if limit := b.height - 8; limit > 0 && len(lines) > limit {
		lines = append(lines[:limit], style.Faint("…"))
	}
	for i, l := range lines {
		lines[i] = truncate.StringWithTail(l, uint(max(b.width, 1)), "…")
	}
	return strings.Join(lines, "\n")
}

func (b *statefulBubble) viewSession() string {
	var header string
	if b.options.Render != nil && b.hasView {
		header = b.options.Render(b.view, b.width)
	} else {
		header = b.renderHeader()
	}

	return paddingStyle.Render(header) + "\n" + listExtraPaddingStyle.Render(b.itemsC.View())
}

func (b *statefulBubble) renderHeader() string {
	var lines []string

	title := "…"
	if b.request != nil {
		title = b.request.DisplayTitle()
	}
	lines = append(lines, style.Title(title))

	if b.request != nil {
		lines = append(lines, style.Faint(b.request.TMDBURL()))
	}

	lines = append(lines, b.renderOverview()...)
	lines = append(lines, "", b.renderTabs(), b.renderStatus())

	return strings.Join(lines, "\n")
}

func (b *statefulBubble) renderOverview() []string {
	switch {
	case !b.hasView || b.view.Discovery == orchestrator.Loading:
		return []string{b.spinnerC.View() + " discovering resources"}
	case b.view.InfoErr != "" && b.view.Info == nil:
		return []string{style.Fg(style.ErrorColor)("overview unavailable: " + b.view.InfoErr)}
	case b.view.Info == nil || b.view.Info.Overview == "":
		return []string{style.Faint("no overview")}
	}

	wrapped := strings.Split(wordwrap.String(b.view.Info.Overview, max(b.width, 20)), "\n")
	if len(wrapped) > overviewLines {
		wrapped = wrapped[:overviewLines]
		wrapped[overviewLines-1] += "…"
	}
	return wrapped
}

func (b *statefulBubble) renderTabs() string {
	tabs := make([]string, len(media.Kinds))
	for i, k := range media.Kinds {
		tabs[i] = style.KindTab(string(k), k == b.activeKind, b.view.Availability[k])
	}
	return strings.Join(tabs, " ")
}

func (b *statefulBubble) renderStatus() string {
	if b.activeKind == "" {
		return ""
	}

	scope := b.scopeFor(b.activeKind)
	var parts []string

	if b.episodic(b.activeKind) {
		seasons := len(b.view.Seasons())
		parts = append(parts, fmt.Sprintf("season %d/%d", scope.Season, seasons))

		count, known := b.view.Episodes[scope.Season]
		switch {
		case scope.Episode == 0:
			parts = append(parts, "whole season")
		case known && count > 0:
			parts = append(parts, fmt.Sprintf("episode %d/%d", scope.Episode, count))
		default:
			parts = append(parts, fmt.Sprintf("episode %d", scope.Episode))
		}
	}

	kv := b.view.Kind(b.activeKind)
	if kv.Scope != scope {
		parts = append(parts, style.Faint("press enter to load"))
		return strings.Join(parts, " • ")
	}

	switch kv.State {
	case orchestrator.Unloaded:
		parts = append(parts, style.Faint("press enter to load"))
	case orchestrator.Loading:
		parts = append(parts, b.spinnerC.View()+" loading")
	case orchestrator.Failed:
		parts = append(parts, style.Fg(style.ErrorColor)(icon.Get(icon.Fail)+" "+kv.Err))
	case orchestrator.Loaded:
		if kv.Listing.Empty() {
			parts = append(parts, style.Status("empty"))
		} else {
			parts = append(parts, fmt.Sprintf("%d resources", len(kv.Listing.Items)))
		}
		if kv.Listing != nil && kv.Listing.Approximate {
			parts = append(parts, style.Fg(style.WarningColor)("no exact episode match, showing the whole season"))
		}
	}

	return strings.Join(parts, " • ")
}

func (b *statefulBubble) viewError() string {
	errorMsg := wordwrap.String(style.Fg(style.ErrorColor)(b.lastError.Error()), max(b.width, 20))
	return b.renderLines(
		true,
		[]string{
			style.ErrorTitle("Error"),
			"",
			icon.Get(icon.Fail) + " An error occurred:",
			"",
			errorMsg,
		},
	)
}

func (b *statefulBubble) renderLines(addHelp bool, lines []string) string {
	h := len(lines)
	l := strings.Join(lines, "\n")
	if addHelp {
		if b.height > h {
			l += strings.Repeat("\n", b.height-h)
		}
		l += b.helpC.View(b.keymap)
	}

	return paddingStyle.Render(l)
}
