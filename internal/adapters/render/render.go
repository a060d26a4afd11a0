// Package render prints pairings and boards for terminals and scripts.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/okian/cuju/internal/domain/types"
)

// Output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
)

// Renderer writes results to an io.Writer in one format.
type Renderer struct {
	w      io.Writer
	format string
	runID  string
	styles styles
}

type styles struct {
	title  lipgloss.Style
	header lipgloss.Style
	cell   lipgloss.Style
	muted  lipgloss.Style
}

// New creates a renderer writing to w. Colors are only emitted when w is a
// terminal that supports them.
func New(w io.Writer, opts ...Option) *Renderer {
	r := &Renderer{
		w:      w,
		format: FormatTable,
	}
	for _, opt := range opts {
		opt(r)
	}

	lr := lipgloss.NewRenderer(w)
	r.styles = styles{
		title:  lr.NewStyle().Bold(true).Foreground(lipgloss.Color("#2CD7C7")),
		header: lr.NewStyle().Bold(true).Padding(0, 1),
		cell:   lr.NewStyle().Padding(0, 1),
		muted:  lr.NewStyle().Foreground(lipgloss.Color("#2C4A54")),
	}
	return r
}

// Format returns the output format in use.
func (r *Renderer) Format() string { return r.format }

type pairingsDoc struct {
	RunID    string          `json:"run_id,omitempty"`
	Items    int             `json:"items"`
	Pairings []types.Pairing `json:"pairings"`
}

type boardDoc struct {
	RunID string        `json:"run_id,omitempty"`
	Board []types.Entry `json:"board"`
}

// Pairings renders suggested matches. items is the working set size.
func (r *Renderer) Pairings(items int, pairings []types.Pairing) error {
	if r.format == FormatJSON {
		if pairings == nil {
			pairings = []types.Pairing{}
		}
		return r.json(pairingsDoc{RunID: r.runID, Items: items, Pairings: pairings})
	}

	rows := make([][]string, len(pairings))
	for i, p := range pairings {
		rows[i] = []string{strconv.Itoa(p.Round), p.A, "vs", p.B, p.Reason}
	}
	title := fmt.Sprintf("Loaded %d models.", items)
	return r.table(title, []string{"#", "Model A", "", "Model B", "Strategy"}, rows)
}

// Board renders the ranked item list.
func (r *Renderer) Board(entries []types.Entry) error {
	if r.format == FormatJSON {
		if entries == nil {
			entries = []types.Entry{}
		}
		return r.json(boardDoc{RunID: r.runID, Board: entries})
	}

	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{
			strconv.Itoa(e.Rank),
			e.ItemID,
			formatFloat(e.Score),
			formatFloat(e.Lower),
			formatFloat(e.Upper),
			strconv.FormatFloat(e.Width, 'f', 1, 64),
			strconv.Itoa(e.Votes),
		}
	}
	title := fmt.Sprintf("Leaderboard (%d models)", len(entries))
	return r.table(title, []string{"Rank", "Model", "Score", "Lower", "Upper", "CI Width", "Votes"}, rows)
}

func (r *Renderer) json(v any) error {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

func (r *Renderer) table(title string, headers []string, rows [][]string) error {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) {
				if w := lipgloss.Width(cell); w > widths[i] {
					widths[i] = w
				}
			}
		}
	}
	// Width() includes the horizontal padding.
	total := len(widths) - 1
	for i := range widths {
		widths[i] += 2
		total += widths[i]
	}

	var sb strings.Builder
	sb.WriteString(r.styles.title.Render(title))
	sb.WriteString("\n\n")
	r.writeRow(&sb, r.styles.header, headers, widths)
	sb.WriteString(r.styles.muted.Render(strings.Repeat("-", total)))
	sb.WriteString("\n")
	for _, row := range rows {
		r.writeRow(&sb, r.styles.cell, row, widths)
	}

	if _, err := io.WriteString(r.w, sb.String()); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

func (r *Renderer) writeRow(sb *strings.Builder, style lipgloss.Style, cells []string, widths []int) {
	for i, cell := range cells {
		if i >= len(widths) {
			break
		}
		sb.WriteString(style.Width(widths[i]).Render(cell))
		if i < len(cells)-1 {
			sb.WriteString(r.styles.muted.Render("|"))
		}
	}
	sb.WriteString("\n")
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
