package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/painel/internal/browser"
	"github.com/jask/painel/internal/theme"
)

const appName = "Painel"

var (
	headerBarStyle = lipgloss.NewStyle().Foreground(theme.Text).Background(theme.Mantle).Padding(0, 2)
	statusBarStyle = lipgloss.NewStyle().Foreground(theme.Subtext0).Background(theme.Surface0).Padding(0, 2)
	sectionStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(theme.Surface1).Padding(0, 1)
)

func (a *App) View() string {
	if !a.ready {
		return theme.Status.Render("Loading…")
	}
	var body string
	if a.screen == nil {
		body = a.renderMenu()
	} else {
		body = a.renderScreen(a.screen)
	}
	base := a.placeWithFooter(a.renderHeader()+"\n\n"+body, a.renderStatus(), a.renderFooter(a.footerBindings()))

	s := a.screen
	switch {
	case s == nil:
		return base
	case s.form != nil:
		return a.composeModal(base, a.renderDialog(s))
	case s.preview != nil:
		return a.composeModal(base, a.renderPreview(s, *s.preview))
	}
	return base
}

// chrome

func (a *App) renderHeader() string {
	parts := []string{theme.Title.Render(appName)}
	if s := a.screen; s != nil {
		parts = append(parts, theme.Value.Render(s.entity.Title), theme.Muted.Render(s.mode.String()))
		if f, ok := a.search.Selected(); ok {
			parts = append(parts, theme.Label.Render("filter: "+f.Label))
		} else {
			parts = append(parts, theme.Label.Render("filter: all columns"))
		}
		if q := a.search.Query(); q != "" && !s.searching {
			parts = append(parts, theme.Label.Render(fmt.Sprintf("search: %q", q)))
		}
	} else {
		parts = append(parts, theme.Muted.Render(a.cfg.Auth.User))
	}
	line := strings.Join(parts, theme.Muted.Render("  ›  "))
	if a.width <= 0 {
		return headerBarStyle.Render(line)
	}
	return headerBarStyle.Width(a.width).Render(line)
}

func (a *App) renderStatus() string {
	var parts []string
	for _, t := range a.toasts {
		parts = append(parts, t.kind.style().Render(t.text))
	}
	if s := a.screen; s != nil && s.loaded {
		parts = append(parts, fmt.Sprintf("%d/%d rows", len(s.visible()), len(s.rows)))
		if n := len(s.b.Selected()); n > 0 {
			parts = append(parts, theme.Selected.Render(fmt.Sprintf("%d selected", n)))
		}
	}
	flat := strings.Join(parts, "  ·  ")
	if a.width <= 0 {
		return statusBarStyle.Render(flat)
	}
	return statusBarStyle.Width(a.width).Render(flat)
}

func (a *App) footerBindings() []key.Binding {
	s := a.screen
	switch {
	case s == nil:
		return a.keys.menuBindings()
	case s.form != nil:
		ed, inspecting := s.b.Dialog().(browser.Editing)
		return a.keys.dialogBindings(s.form.Editable() && !(inspecting && ed.Inspect))
	case s.searching:
		return a.keys.searchBindings()
	case s.preview != nil:
		return []key.Binding{a.keys.Back}
	}
	return a.keys.screenBindings(s.affordances())
}

func (a *App) renderFooter(bindings []key.Binding) string {
	content := a.help.ShortHelpView(bindings)
	if a.width <= 0 {
		return theme.Footer.Render(content)
	}
	return theme.Footer.Width(a.width).Render(content)
}

func (a *App) placeWithFooter(body, statusLine, footer string) string {
	if a.height == 0 {
		return body + "\n\n" + statusLine + "\n" + footer
	}
	contentHeight := max(a.height-2, 1)
	if lipgloss.Height(body) >= contentHeight {
		return body + "\n" + statusLine + "\n" + footer
	}
	main := lipgloss.Place(a.width, contentHeight, lipgloss.Left, lipgloss.Top, body)
	// full-width lines so shorter frames leave no residue
	lines := splitLines(main)
	for i, line := range lines {
		lines[i] = padRight(line, a.width)
	}
	return strings.Join(lines, "\n") + "\n" + statusLine + "\n" + footer
}

func (a *App) contentWidth() int {
	if a.width == 0 {
		return 80
	}
	return max(a.width-4-sectionStyle.GetHorizontalFrameSize(), 20)
}

// bodyLines is the height left for rows below the header and above the
// status bar and footer.
func (a *App) bodyLines() int {
	if a.height == 0 {
		return 20
	}
	return max(a.height-2-2-sectionStyle.GetVerticalFrameSize()-3, 3)
}

func (a *App) section(title, content string) string {
	width := a.contentWidth()
	header := padRight(theme.Title.Render(title), width)
	sep := lipgloss.NewStyle().Foreground(theme.Surface2).Render(strings.Repeat("─", width))
	return sectionStyle.Render(header + "\n" + sep + "\n" + content)
}

// menu

func (a *App) renderMenu() string {
	if len(a.menu) == 0 {
		return a.section("Entities", theme.Muted.Render("Nothing to show for "+a.cfg.Auth.User+"."))
	}
	width := a.contentWidth()
	titleW := max(width-24, 10)
	lines := make([]string, 0, len(a.menu))
	for i, e := range a.menu {
		prefix := "  "
		title := theme.Value.Render(fit(e.Title, titleW))
		if i == a.cursor {
			prefix = theme.Cursor.Render("› ")
			title = theme.Cursor.Render(fit(e.Title, titleW))
		}
		count := theme.Label.Render(fmt.Sprintf("%6d", a.counts[e.Slug]))
		mode := theme.Muted.Render(fit(a.modes[e.Slug].String(), 14))
		lines = append(lines, prefix+title+" "+count+"  "+mode)
	}
	return a.section("Entities", strings.Join(lines, "\n"))
}

// entity screen

func (a *App) renderScreen(s *screen) string {
	var parts []string
	if s.searching {
		s.query.Width = max(a.contentWidth()-4, 10)
		parts = append(parts, s.query.View())
	}
	rows := s.visible()
	switch {
	case !s.loaded:
		parts = append(parts, theme.Muted.Render("Loading…"))
	case len(rows) == 0 && a.search.Query() != "":
		parts = append(parts, theme.Muted.Render("No records match the search."))
	case len(rows) == 0:
		parts = append(parts, theme.Muted.Render("No records."))
	case s.b.ViewMode() == browser.Table:
		parts = append(parts, a.renderTable(s, rows))
	default:
		parts = append(parts, a.renderCards(s, rows))
	}
	return a.section(s.entity.Title, strings.Join(parts, "\n"))
}

// rowMark flags selection and armed deletes in the leading column.
func rowMark(s *screen, id browser.ID) string {
	switch {
	case s.b.Guard().Armed(browser.DeleteKey(id)):
		return theme.Armed.Render("×")
	case s.b.IsSelected(id):
		return theme.Selected.Render("✓")
	}
	return " "
}

func (a *App) renderTable(s *screen, rows []browser.Row) string {
	n := max(len(s.columns), 1)
	const markW = 1
	// cells carry one column of padding on each side
	colW := max((a.contentWidth()-markW-2*(n+1))/n, 6)

	cols := make([]table.Column, 0, n+1)
	cols = append(cols, table.Column{Title: "", Width: markW})
	for _, c := range s.columns {
		cols = append(cols, table.Column{Title: c.Title(), Width: colW})
	}
	data := make([]table.Row, len(rows))
	for i, r := range rows {
		tr := table.Row{rowMark(s, r.ID)}
		for _, c := range s.columns {
			tr = append(tr, c.Format(r))
		}
		data[i] = tr
	}

	st := table.DefaultStyles()
	st.Header = st.Header.Inherit(theme.TableHeader).BorderForeground(theme.Surface1)
	st.Selected = st.Selected.Foreground(theme.Base).Background(theme.Lavender).Bold(false)

	t := table.New(
		table.WithColumns(cols),
		table.WithRows(data),
		table.WithHeight(a.bodyLines()),
		table.WithFocused(true),
		table.WithStyles(st),
	)
	t.SetCursor(s.cursor)
	return t.View()
}

func (a *App) renderCards(s *screen, rows []browser.Row) string {
	width := a.contentWidth() - theme.Card.GetHorizontalFrameSize()
	cardH := len(s.columns) + theme.Card.GetVerticalFrameSize()
	perPage := max(a.bodyLines()/max(cardH, 1), 1)
	s.scroll(perPage)

	end := min(s.top+perPage, len(rows))
	cards := make([]string, 0, end-s.top)
	for i := s.top; i < end; i++ {
		r := rows[i]
		style := theme.Card
		if i == s.cursor {
			style = theme.CardFocused
		}
		if s.b.Guard().Armed(browser.DeleteKey(r.ID)) {
			style = style.BorderForeground(theme.Error)
		}
		cards = append(cards, style.Width(width).Render(cardBody(s, r, width)))
	}
	if len(rows) > perPage {
		cards = append(cards, theme.Muted.Render(fmt.Sprintf("── showing %d-%d of %d ──", s.top+1, end, len(rows))))
	}
	return strings.Join(cards, "\n")
}

func cardBody(s *screen, r browser.Row, width int) string {
	if len(s.columns) == 0 {
		return r.ID.String()
	}
	mark := rowMark(s, r.ID)
	lines := []string{mark + " " + theme.Title.Render(truncate(s.columns[0].Format(r), width-2))}
	labelW := 0
	for _, c := range s.columns[1:] {
		labelW = max(labelW, lipgloss.Width(c.Title()))
	}
	for _, c := range s.columns[1:] {
		label := theme.Label.Render(padRight(c.Title(), labelW))
		lines = append(lines, "  "+label+"  "+theme.Value.Render(truncate(c.Format(r), max(width-labelW-4, 4))))
	}
	return strings.Join(lines, "\n")
}

// overlays

func (a *App) renderDialog(s *screen) string {
	var title string
	switch d := s.b.Dialog().(type) {
	case browser.Adding:
		title = "New · " + s.entity.Title
	case browser.Editing:
		title = "Edit · " + s.entity.Title
		if d.Inspect {
			title = "View · " + s.entity.Title
		}
	}
	lines := []string{theme.Title.Render(title), ""}
	lines = append(lines, s.form.View(a.modalWidth()))
	if s.b.Inflight() != nil {
		lines = append(lines, "", theme.Muted.Render("saving…"))
	}
	return strings.Join(lines, "\n")
}

// renderPreview shows the table columns followed by the form-only fields.
func (a *App) renderPreview(s *screen, r browser.Row) string {
	width := a.modalWidth()
	cols := append([]browser.Column(nil), s.columns...)
	shown := make(map[string]bool, len(cols))
	for _, c := range cols {
		shown[c.Key] = true
	}
	for _, f := range s.fields {
		if !shown[f.Key] {
			cols = append(cols, f.Column)
			shown[f.Key] = true
		}
	}
	labelW := 0
	for _, c := range cols {
		labelW = max(labelW, lipgloss.Width(c.Title()))
	}
	lines := []string{theme.Title.Render("Preview · " + s.entity.Title), ""}
	for _, c := range cols {
		label := theme.Label.Render(padRight(c.Title(), labelW))
		lines = append(lines, label+"  "+theme.Value.Render(truncate(c.Format(r), max(width-labelW-2, 4))))
	}
	return strings.Join(lines, "\n")
}
