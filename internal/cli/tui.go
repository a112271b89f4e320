package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/snowball/pkg/scenario"
	"github.com/matzehuels/snowball/pkg/scene"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
	headerStyle  = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// layerHeaders are the column titles of the layer table.
var layerHeaders = []string{"", "#", "Shape", "In", "Out", "Keys", "Colour", "Start", "End"}

// layerRow is the summary of one scene layer shown in the table.
type layerRow struct {
	Index     int
	Kind      string
	In, Out   int
	Keyframes int
	Colour    string
	Start     string
	End       string
}

// layerRows summarizes the layers of doc in document order.
func layerRows(doc scene.Document) []layerRow {
	rows := make([]layerRow, len(doc.Layers))
	for i, l := range doc.Layers {
		r := layerRow{Index: i, Kind: "—", In: l.In, Out: l.Out, Keyframes: l.Keyframes(), Colour: "—"}
		if f, ok := l.Fill(); ok {
			r.Colour = scenario.FormatColour(f.Colour.At(l.In).RGBA())
		}
		last := max(l.In, l.Out-1)
		switch g := l.Geometry().(type) {
		case scene.Ellipse:
			r.Kind = scene.KindEllipse
			r.Start, r.End = formatCoords(g.Position.At(l.In)), formatCoords(g.Position.At(last))
		case scene.Rect:
			r.Kind = scene.KindRect
			r.Start, r.End = formatCoords(g.Position.At(l.In)), formatCoords(g.Position.At(last))
		case scene.Line:
			r.Kind = scene.KindLine
			r.Start, r.End = formatCoords(g.Segment.At(l.In).From), formatCoords(g.Segment.At(last).To)
		}
		rows[i] = r
	}
	return rows
}

func formatCoords(c scene.Coords) string {
	return fmt.Sprintf("%d,%d", c.X, c.Y)
}

func (r layerRow) cells(cursor string) []string {
	return []string{
		cursor,
		strconv.Itoa(r.Index),
		r.Kind,
		strconv.Itoa(r.In),
		strconv.Itoa(r.Out),
		strconv.Itoa(r.Keyframes),
		r.Colour,
		r.Start,
		r.End,
	}
}

// layerTable renders rows with the shared table style. selected is the
// index into rows of the highlighted row, or -1.
func layerTable(rows []layerRow, selected int) *table.Table {
	data := make([][]string, len(rows))
	for i, r := range rows {
		cursor := "  "
		if i == selected {
			cursor = "▸ "
		}
		data[i] = r.cells(cursor)
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(layerHeaders...).
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row < 0 || row >= len(rows) {
				return lipgloss.NewStyle()
			}
			base := lipgloss.NewStyle()
			if col == 6 && rows[row].Colour != "—" {
				base = base.Foreground(lipgloss.Color(rows[row].Colour))
			} else if col >= 7 {
				base = base.Foreground(colorGray)
			}
			if row == selected {
				return base.Bold(true)
			}
			return base
		})
}

// =============================================================================
// LayerListModel - Interactive layer browser
// =============================================================================

// LayerListModel is the bubbletea model for browsing the layers of a scene.
type LayerListModel struct {
	Title  string
	Doc    scene.Document
	Rows   []layerRow
	Cursor int
	Height int
	Offset int

	// Detail shows the keyframes of the selected layer.
	Detail bool
}

// NewLayerListModel creates a new layer list model.
func NewLayerListModel(title string, doc scene.Document) LayerListModel {
	return LayerListModel{
		Title:  title,
		Doc:    doc,
		Rows:   layerRows(doc),
		Height: 15,
	}
}

func (m LayerListModel) Init() tea.Cmd {
	return nil
}

func (m LayerListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Rows)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "home", "g":
			m.Cursor, m.Offset = 0, 0
		case "end", "G":
			m.Cursor = max(len(m.Rows)-1, 0)
			m.Offset = max(m.Cursor-m.Height+1, 0)
		case "enter", " ":
			m.Detail = !m.Detail
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-14, 5)
	}
	return m, nil
}

func (m LayerListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("%d layers · %d×%d · %d fps · %d ticks",
		len(m.Rows), m.Doc.Width, m.Doc.Height, m.Doc.FrameRate, m.Doc.End)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ keyframes  q quit"))
	b.WriteString("\n\n")

	if len(m.Rows) == 0 {
		b.WriteString(listDimStyle.Render("  (no layers)"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Rows))
	b.WriteString(layerTable(m.Rows[m.Offset:end], m.Cursor-m.Offset).Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Rows))))
	b.WriteString("\n")

	if m.Detail {
		b.WriteString("\n")
		b.WriteString(keyframeDetail(m.Doc.Layers[m.Cursor], 12))
	}
	return b.String()
}

// keyframeDetail lists up to limit position keyframes of l.
func keyframeDetail(l scene.Layer, limit int) string {
	var (
		b     strings.Builder
		times []int
		vals  []string
	)
	switch g := l.Geometry().(type) {
	case scene.Ellipse:
		times, vals = keyframes(g.Position, formatCoords)
	case scene.Rect:
		times, vals = keyframes(g.Position, formatCoords)
	case scene.Line:
		times, vals = keyframes(g.Segment, func(s scene.Segment) string {
			return formatCoords(s.From) + " " + iconArrow + " " + formatCoords(s.To)
		})
	}
	if len(times) == 0 {
		b.WriteString(listDimStyle.Render("  static layer"))
		b.WriteString("\n")
		return b.String()
	}
	for i := range min(len(times), limit) {
		fmt.Fprintf(&b, "  %s %s\n", StyleNumber.Render(fmt.Sprintf("t=%-6d", times[i])), StyleValue.Render(vals[i]))
	}
	if len(times) > limit {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  … %d more", len(times)-limit)))
		b.WriteString("\n")
	}
	return b.String()
}

func keyframes[T any](p scene.Prop[T], format func(T) string) ([]int, []string) {
	if !p.Animated {
		return nil, nil
	}
	times := make([]int, len(p.Keyframes))
	vals := make([]string, len(p.Keyframes))
	for i, kf := range p.Keyframes {
		times[i], vals[i] = kf.Time, format(kf.Value)
	}
	return times, vals
}
