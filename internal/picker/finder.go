package picker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/x/ansi"
	"github.com/sahilm/fuzzy"

	"github.com/raphi011/shelf/internal/log"
	"github.com/raphi011/shelf/internal/ui/styles"
)

const (
	// previewMinWidth is the terminal width above which the preview pane is shown.
	previewMinWidth = 160
	maxVisible      = 10
	// maxBatch caps how many queued candidates are folded into one update.
	maxBatch = 64
)

// Finder is the interactive fuzzy front-end. It draws on Output (stderr by
// default) so that stdout stays free for the selected path.
type Finder struct {
	Prompt    string
	NoPreview bool
	Output    io.Writer
}

// Select implements Frontend.
func (f *Finder) Select(ctx context.Context, items <-chan Candidate, done <-chan error) (Candidate, error) {
	out := f.Output
	if out == nil {
		out = os.Stderr
	}

	m := newModel(ctx, items, done, f.Prompt, !f.NoPreview)
	defer m.stop()
	p := tea.NewProgram(m,
		tea.WithOutput(out),
		tea.WithColorProfile(colorprofile.Detect(out, os.Environ())),
	)

	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("picker: %w", err)
	}
	fm := final.(*model)
	if fm.err != nil {
		return nil, fm.err
	}
	if fm.selected == nil {
		log.FromContext(ctx).Debugf("picker aborted after %d candidates", len(fm.all))
	}
	return fm.selected, nil
}

// candidates implements fuzzy.Source over the stripped item text.
type candidates []Candidate

func (s candidates) String(i int) string { return s[i].Text() }
func (s candidates) Len() int            { return len(s) }

type itemsMsg []Candidate

type discoveredMsg struct{ err error }

type previewMsg struct {
	c    Candidate
	text string
}

type cancelledMsg struct{ err error }

type model struct {
	// ctx ends when the caller is cancelled or the program has returned.
	ctx   context.Context
	stop  context.CancelFunc
	items <-chan Candidate
	done  <-chan error

	input   textinput.Model
	spinner spinner.Model

	all     []Candidate
	matches []fuzzy.Match
	cursor  int
	loading bool

	width, height int
	previewOn     bool
	previews      map[Candidate]string

	selected Candidate
	quitting bool
	err      error
}

func newModel(ctx context.Context, items <-chan Candidate, done <-chan error, prompt string, preview bool) *model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = prompt
	ti.CharLimit = 256
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Fg(styles.Current().Accent)

	ctx, stop := context.WithCancel(ctx)
	return &model{
		ctx:       ctx,
		stop:      stop,
		items:     items,
		done:      done,
		input:     ti,
		spinner:   sp,
		loading:   true,
		previewOn: preview,
		previews:  make(map[Candidate]string),
	}
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, m.waitForItems(), m.waitForCancel())
}

// waitForItems drains whatever is queued on the channel, blocking for the
// first item. Once the channel is closed it reports the producer result.
func (m *model) waitForItems() tea.Cmd {
	items, done := m.items, m.done
	return func() tea.Msg {
		c, ok := <-items
		if !ok {
			return discoveredMsg{err: <-done}
		}
		batch := itemsMsg{c}
		for len(batch) < maxBatch {
			select {
			case c, ok := <-items:
				if !ok {
					return batch
				}
				batch = append(batch, c)
			default:
				return batch
			}
		}
		return batch
	}
}

func (m *model) waitForCancel() tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		<-ctx.Done()
		return cancelledMsg{err: ctx.Err()}
	}
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.quitting {
		return m, tea.Quit
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, m.previewCmd()

	case itemsMsg:
		m.all = append(m.all, msg...)
		m.applyFilter()
		return m, tea.Batch(m.waitForItems(), m.previewCmd())

	case discoveredMsg:
		m.loading = false
		if msg.err != nil && !errors.Is(msg.err, ErrClosed) {
			m.err = msg.err
			return m.quit()
		}
		return m, nil

	case previewMsg:
		m.previews[msg.c] = msg.text
		return m, nil

	case cancelledMsg:
		m.err = msg.err
		return m.quit()

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyPressMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m.quit()
	case "esc":
		if m.input.Value() != "" {
			m.input.SetValue("")
			m.applyFilter()
			return m, m.previewCmd()
		}
		return m.quit()
	case "enter":
		if c := m.current(); c != nil {
			m.selected = c
			return m.quit()
		}
		return m, nil
	case "up", "ctrl+p", "ctrl+k":
		m.moveCursor(-1)
		return m, m.previewCmd()
	case "down", "ctrl+n", "ctrl+j":
		m.moveCursor(1)
		return m, m.previewCmd()
	case "pgup":
		m.moveCursor(-maxVisible)
		return m, m.previewCmd()
	case "pgdown":
		m.moveCursor(maxVisible)
		return m, m.previewCmd()
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.applyFilter()
		return m, tea.Batch(cmd, m.previewCmd())
	}
	return m, cmd
}

func (m *model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	return m, tea.Quit
}

func (m *model) moveCursor(delta int) {
	if len(m.matches) == 0 {
		m.cursor = 0
		return
	}
	m.cursor = max(0, min(m.cursor+delta, len(m.matches)-1))
}

// current returns the highlighted candidate, or nil when nothing matches.
func (m *model) current() Candidate {
	if m.cursor < 0 || m.cursor >= len(m.matches) {
		return nil
	}
	return m.all[m.matches[m.cursor].Index]
}

// applyFilter recomputes the matches and keeps the highlighted candidate
// under the cursor when it still matches.
func (m *model) applyFilter() {
	prev := m.current()

	filter := m.input.Value()
	if filter == "" {
		m.matches = m.matches[:0]
		for i, c := range m.all {
			m.matches = append(m.matches, fuzzy.Match{Str: c.Text(), Index: i})
		}
	} else {
		m.matches = fuzzy.FindFrom(filter, candidates(m.all))
	}

	if prev != nil {
		for i, match := range m.matches {
			if m.all[match.Index] == prev {
				m.cursor = i
				return
			}
		}
	}
	if m.cursor >= len(m.matches) {
		m.cursor = max(0, len(m.matches)-1)
	}
}

func (m *model) showPreview() bool {
	return m.previewOn && m.width > previewMinWidth
}

// previewCmd loads the preview of the highlighted candidate once.
func (m *model) previewCmd() tea.Cmd {
	c := m.current()
	if c == nil || !m.showPreview() {
		return nil
	}
	if _, ok := m.previews[c]; ok {
		return nil
	}
	m.previews[c] = ""

	ctx := m.ctx
	return func() tea.Msg {
		text, err := c.Preview(ctx)
		if err != nil {
			log.FromContext(ctx).Debugf("preview of %s: %v", c.Text(), err)
			text = styles.Fg(styles.Current().Error).Render(err.Error())
		}
		return previewMsg{c: c, text: text}
	}
}

func (m *model) View() tea.View {
	if m.quitting {
		return tea.NewView("")
	}

	list := m.listView()
	if !m.showPreview() {
		return tea.NewView(list)
	}

	listWidth := m.width / 2
	pane := lipgloss.NewStyle().
		BorderLeft(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.Current().Muted).
		PaddingLeft(1).
		Render(m.previewView(m.width - listWidth - 3))

	return tea.NewView(lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(listWidth).Render(list),
		pane,
	))
}

func (m *model) listView() string {
	theme := styles.Current()
	muted := styles.Fg(theme.Muted)

	var b strings.Builder
	b.WriteString(m.input.View())
	b.WriteString("  ")
	b.WriteString(muted.Render(fmt.Sprintf("%d/%d", len(m.matches), len(m.all))))
	if m.loading {
		b.WriteString(" " + m.spinner.View())
	}
	b.WriteString("\n")

	width := m.labelWidth()
	if len(m.matches) == 0 {
		if m.loading {
			b.WriteString(muted.Render("  Searching...") + "\n")
		} else {
			b.WriteString(muted.Render("  No matching items") + "\n")
		}
	}

	start := 0
	if m.cursor >= maxVisible {
		start = m.cursor - maxVisible + 1
	}
	end := min(start+maxVisible, len(m.matches))

	if start > 0 {
		b.WriteString(muted.Render("  ↑ more above") + "\n")
	}
	for i := start; i < end; i++ {
		match := m.matches[i]
		c := m.all[match.Index]

		cursor := "  "
		if i == m.cursor {
			cursor = styles.Fg(theme.Accent).Bold(true).Render("> ")
		}

		label := c.Label()
		if m.input.Value() != "" {
			label = highlightMatches(c.Text(), match.MatchedIndexes)
		}
		if width > 0 {
			label = ansi.Truncate(label, width, "…")
		}
		b.WriteString(cursor + label + "\n")
	}
	if end < len(m.matches) {
		b.WriteString(muted.Render("  ↓ more below") + "\n")
	}

	b.WriteString(muted.Render("enter select • esc clear/abort • ↑↓ move") + "\n")
	return b.String()
}

// labelWidth is the room left for a label next to the cursor, or 0 when
// the terminal size is not known yet.
func (m *model) labelWidth() int {
	if m.width == 0 {
		return 0
	}
	w := m.width
	if m.showPreview() {
		w = m.width / 2
	}
	return max(w-2, 1)
}

func (m *model) previewView(width int) string {
	c := m.current()
	if c == nil {
		return ""
	}
	text := m.previews[c]

	height := maxVisible + 3
	if m.height > 0 {
		height = m.height - 1
	}
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for i, line := range lines {
		lines[i] = ansi.Truncate(line, max(width, 1), "")
	}
	return strings.Join(lines, "\n")
}

// highlightMatches renders text with the matched byte positions emphasized.
func highlightMatches(text string, matched []int) string {
	set := make(map[int]bool, len(matched))
	for _, i := range matched {
		set[i] = true
	}
	hl := styles.Fg(styles.Current().Accent).Bold(true)

	var b strings.Builder
	for i, r := range text {
		if set[i] {
			b.WriteString(hl.Render(string(r)))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
