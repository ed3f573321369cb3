package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/varlayout/pkg/errors"
	"github.com/matzehuels/varlayout/pkg/pipeline"
	"github.com/matzehuels/varlayout/pkg/track"
)

const (
	// stripWidth is the number of cells of the track overview line.
	stripWidth = 72

	// panFraction is the share of the view width moved by one pan.
	panFraction = 0.25

	zoomFactor = 2.0
)

// Inspector styles
var (
	inspectorSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	inspectorDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	inspectorMarkStyle     = lipgloss.NewStyle().Foreground(colorGreen)
)

// =============================================================================
// InspectorModel - Interactive track inspection
// =============================================================================

// InspectorModel is the bubbletea model of the track inspector. Pans are
// sent to the orchestrator as pans, so gene-model views reflow; zooms
// rebuild from the last payload.
type InspectorModel struct {
	ctx  context.Context
	orch *pipeline.Orchestrator
	spec pipeline.ViewSpec

	// highlight is kept in insertion order for stable requests.
	highlight []string

	Result *pipeline.Result
	Err    error

	Cursor int
	Offset int
	Height int
}

// NewInspectorModel creates an inspector over an orchestrator that already
// holds the first result.
func NewInspectorModel(ctx context.Context, orch *pipeline.Orchestrator, spec pipeline.ViewSpec, res *pipeline.Result, highlight []string) InspectorModel {
	return InspectorModel{
		ctx:       ctx,
		orch:      orch,
		spec:      spec,
		highlight: append([]string(nil), highlight...),
		Result:    res,
		Height:    15,
	}
}

func (m InspectorModel) Init() tea.Cmd {
	return nil
}

func (m InspectorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h":
			m = m.refresh(m.spec.Pan(m.viewWidth()*panFraction), pipeline.ChangePan)
		case "right", "l":
			m = m.refresh(m.spec.Pan(-m.viewWidth()*panFraction), pipeline.ChangePan)
		case "+", "=":
			m = m.refresh(m.spec.Zoom(zoomFactor), pipeline.ChangeZoom)
		case "-", "_":
			m = m.refresh(m.spec.Zoom(1/zoomFactor), pipeline.ChangeZoom)
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.groups())-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case " ", "space", "enter":
			if g := m.selected(); g != nil {
				m.orch.SetState(g.Key(), track.UIState{Folded: !g.State.Folded, XOffset: g.State.XOffset})
			}
		case "x":
			if g := m.selected(); g != nil {
				m.highlight = toggleHighlight(m.highlight, g)
				m = m.refresh(m.spec, pipeline.ChangePan)
			}
		case "m":
			m.cycleMode()
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 14
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

// refresh runs one refresh. On error the previous result and view are kept
// and the error is shown.
func (m InspectorModel) refresh(spec pipeline.ViewSpec, change pipeline.Change) InspectorModel {
	res, err := m.orch.Refresh(m.ctx, pipeline.Request{
		View:      spec.View(),
		Change:    change,
		Highlight: m.highlight,
	})
	if err != nil {
		m.Err = err
		return m
	}
	m.Err = nil
	m.Result = res
	m.spec = spec
	if n := len(res.Groups); m.Cursor >= n {
		m.Cursor = max(n-1, 0)
	}
	if m.Offset > m.Cursor {
		m.Offset = m.Cursor
	}
	return m
}

func (m *InspectorModel) cycleMode() {
	modes := m.orch.Modes()
	if len(modes.Possible) < 2 {
		return
	}
	next := 0
	for i, p := range modes.Possible {
		if p.Same(modes.Active) {
			next = (i + 1) % len(modes.Possible)
			break
		}
	}
	if err := m.orch.SetMode(modes.Possible[next]); err != nil {
		m.Err = err
	}
}

func (m InspectorModel) groups() []*track.PositionGroup {
	if m.Result == nil {
		return nil
	}
	return m.Result.Groups
}

func (m InspectorModel) selected() *track.PositionGroup {
	gs := m.groups()
	if m.Cursor < 0 || m.Cursor >= len(gs) {
		return nil
	}
	return gs[m.Cursor]
}

func (m InspectorModel) viewWidth() float64 {
	if m.spec.Width > 0 {
		return m.spec.Width
	}
	return pipeline.DefaultWidth
}

// toggleHighlight removes the group's records from ids when all of them are
// highlighted, and adds the missing ones otherwise.
func toggleHighlight(ids []string, g *track.PositionGroup) []string {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	if g.Highlighted && g.Contains(set) {
		members := make(map[string]bool, len(g.Records))
		for _, r := range g.Records {
			members[r.SSMID] = true
		}
		var out []string
		for _, id := range ids {
			if !members[id] {
				out = append(out, id)
			}
		}
		return out
	}
	for _, r := range g.Records {
		if _, ok := set[r.SSMID]; !ok {
			ids = append(ids, r.SSMID)
			set[r.SSMID] = struct{}{}
		}
	}
	return ids
}

// =============================================================================
// Rendering
// =============================================================================

func (m InspectorModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Variant Track"))
	b.WriteString(" ")
	b.WriteString(inspectorDimStyle.Render(m.header()))
	b.WriteString("\n")
	b.WriteString(inspectorDimStyle.Render("←/→ pan  +/- zoom  ↑/↓ select  ␣ fold  x highlight  m mode  q quit"))
	b.WriteString("\n\n")

	if m.Result != nil && m.Result.Empty != nil {
		b.WriteString(StyleWarning.Render(m.Result.Empty.Message))
		b.WriteString("\n")
	} else {
		b.WriteString(m.strip())
		b.WriteString("\n\n")
		b.WriteString(m.table())
		b.WriteString("\n")
	}

	if m.Err != nil {
		label := "refresh failed"
		if errors.IsFatal(m.Err) {
			label = "layout error " + string(errors.GetCode(m.Err))
		}
		b.WriteString(StyleError.Render(iconError + " " + label + ": " + errors.UserMessage(m.Err)))
		b.WriteString("\n")
	}
	if m.Result != nil {
		for _, reason := range rejectionReasons(m.Result.Rejections) {
			b.WriteString(inspectorDimStyle.Render("  " + reason))
			b.WriteString("\n")
		}
		b.WriteString(inspectorDimStyle.Render(fmt.Sprintf("  [%d/%d]", min(m.Cursor+1, len(m.groups())), len(m.groups()))))
	}
	return b.String()
}

func (m InspectorModel) header() string {
	parts := []string{}
	if len(m.spec.Regions) > 0 {
		r := m.spec.Regions[0]
		parts = append(parts, fmt.Sprintf("%s:%d-%d", r.Chr, r.Start, r.Stop), fmt.Sprintf("%.3g px/base", r.PixelsPerBase))
	}
	if m.Result != nil {
		parts = append(parts, string(m.Result.Path))
	}
	parts = append(parts, "mode "+m.orch.Modes().Active.String())
	return strings.Join(parts, " · ")
}

// strip draws one cell per view slice with a mark where groups fall, and a
// caret under the selected group.
func (m InspectorModel) strip() string {
	cells := []rune(strings.Repeat("─", stripWidth))
	caret := []rune(strings.Repeat(" ", stripWidth))
	w := m.viewWidth()
	for i, g := range m.groups() {
		col := int(g.X / w * stripWidth)
		if col < 0 || col >= stripWidth {
			continue
		}
		mark := '●'
		if g.Highlighted {
			mark = '◆'
		} else if g.State.Folded {
			mark = '·'
		}
		cells[col] = mark
		if i == m.Cursor {
			caret[col] = '▲'
		}
	}
	return inspectorMarkStyle.Render(string(cells)) + "\n" + inspectorSelectedStyle.Render(string(caret))
}

func (m InspectorModel) table() string {
	gs := m.groups()
	end := min(m.Offset+m.Height, len(gs))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		g := gs[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		pos := fmt.Sprintf("%s:%d", g.Chr, g.Pos)
		if g.IsBin {
			pos += " (bin)"
		}
		aa := "—"
		if g.AAPos != nil {
			aa = fmt.Sprintf("%d", *g.AAPos)
		}
		state := "open"
		if g.State.Folded {
			state = "folded"
		}
		if g.Highlighted {
			state += " ★"
		}
		rows = append(rows, []string{cursor, pos, fmt.Sprintf("%.1f", g.X), aa, fmt.Sprintf("%d", g.Occurrence), typeSummary(g), state})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Position", "X", "AA", "Occ", "Types", "State").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.Offset + row
			if idx >= len(gs) {
				return lipgloss.NewStyle()
			}
			switch {
			case idx == m.Cursor:
				return inspectorSelectedStyle
			case gs[idx].Highlighted:
				return StyleHighlight
			case gs[idx].State.Folded:
				return inspectorDimStyle
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})
	return t.Render()
}

// typeSummary lists the type groups as dt[:class][ name]×occurrence.
func typeSummary(g *track.PositionGroup) string {
	parts := make([]string, len(g.Types))
	for i, t := range g.Types {
		label := t.DataType.String()
		if t.Class != "" {
			label += ":" + t.Class
		}
		if t.Name != "" {
			label += " " + t.Name
		}
		parts[i] = fmt.Sprintf("%s×%d", label, t.Occurrence)
	}
	return strings.Join(parts, ", ")
}
