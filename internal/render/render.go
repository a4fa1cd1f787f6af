package render

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/vk/stepflow/internal/progress"
)

// DefaultInterval is the repaint period used by NewRenderer.
const DefaultInterval = 250 * time.Millisecond

var (
	styleWait    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	styleRunning = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	styleDone    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	styleSkip    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	styleName    = lipgloss.NewStyle()
	styleDetail  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
)

// Renderer polls a registry snapshot and repaints one indented row per
// registered node, in registration order.
type Renderer struct {
	out      io.Writer
	reg      *progress.Registry
	interval time.Duration

	mu        sync.Mutex
	lastLines int
}

// NewRenderer creates a renderer writing ANSI output to out.
func NewRenderer(out io.Writer, reg *progress.Registry) *Renderer {
	return &Renderer{out: out, reg: reg, interval: DefaultInterval}
}

// Start launches the repaint loop and returns a stop function that paints
// one final frame and releases the goroutine.
func (r *Renderer) Start(ctx context.Context) (stop func()) {
	stopCh := make(chan struct{})
	doneCh := make(chan struct{})

	go func() {
		defer close(doneCh)
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-stopCh:
				return
			case <-ticker.C:
				r.paint()
			}
		}
	}()

	return func() {
		close(stopCh)
		<-doneCh
		r.paint()
	}
}

// paint rewinds over the previous frame and reprints every row.
func (r *Renderer) paint() {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows := r.reg.Snapshot()

	var b strings.Builder
	if r.lastLines > 0 {
		fmt.Fprintf(&b, "\x1b[%dA", r.lastLines)
	}
	for _, row := range rows {
		b.WriteString("\x1b[2K")
		b.WriteString(formatRow(row))
		b.WriteByte('\n')
	}
	io.WriteString(r.out, b.String())
	r.lastLines = len(rows)
}

// formatRow renders one registry row: indentation by nesting level, a
// state glyph, the name and a kind-specific detail column.
func formatRow(row progress.Row) string {
	indent := strings.Repeat("  ", row.Level)
	glyph := stateGlyph(row.State)
	detail := formatDetail(row)
	if detail != "" {
		return fmt.Sprintf("%s%s %s %s", indent, glyph, styleName.Render(row.Name), styleDetail.Render(detail))
	}
	return fmt.Sprintf("%s%s %s", indent, glyph, styleName.Render(row.Name))
}

func stateGlyph(s progress.Status) string {
	switch s {
	case progress.Wait:
		return styleWait.Render("·")
	case progress.Running:
		return styleRunning.Render("▸")
	case progress.Done:
		return styleDone.Render("✓")
	case progress.Skip:
		return styleSkip.Render("−")
	default:
		return "?"
	}
}
