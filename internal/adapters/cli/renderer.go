package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/example/shiftlog/internal/core/clock"
	"github.com/example/shiftlog/internal/core/shift"
	"github.com/example/shiftlog/internal/ports/secondary"
)

// SummaryRenderer prints a one-line shift summary after every change.
// It implements secondary.Renderer.
type SummaryRenderer struct {
	out io.Writer
}

// NewSummaryRenderer creates a renderer writing to out.
func NewSummaryRenderer(out io.Writer) *SummaryRenderer {
	return &SummaryRenderer{out: out}
}

// Render prints the counts of the active shift and the archive size.
func (r *SummaryRenderer) Render(ctx context.Context, view secondary.ViewSnapshot) error {
	st := shift.ComputeStats(&view.Data)
	label := color.New(color.FgCyan).Sprint("shift")
	if view.Settings.UI.Compact {
		_, err := fmt.Fprintf(r.out, "%s %d/%d/%d\n", label, st.Requests, st.Delivered, st.Assists)
		return err
	}
	_, err := fmt.Fprintf(r.out, "%s %d requests · %d delivered · %d assists (%s) · archive %d\n",
		label, st.Requests, st.Delivered, st.Assists, clock.Format(st.AssistTotalMins), len(view.Data.Shifts))
	return err
}

// NopRenderer discards renders. Used with --quiet.
type NopRenderer struct{}

// Render does nothing.
func (NopRenderer) Render(context.Context, secondary.ViewSnapshot) error { return nil }
