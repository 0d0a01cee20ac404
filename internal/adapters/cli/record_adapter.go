// Package cli provides thin CLI adapters that translate between CLI concerns
// and application services. Adapters handle argument parsing, output formatting,
// but delegate business logic to services.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/example/shiftlog/internal/core/clock"
	"github.com/example/shiftlog/internal/models"
	"github.com/example/shiftlog/internal/ports/primary"
)

// RecordAdapter translates record commands (requests, delivered, assists)
// to ShiftLogService calls.
type RecordAdapter struct {
	service primary.ShiftLogService
	out     io.Writer
}

// NewRecordAdapter creates a new RecordAdapter with the given service.
func NewRecordAdapter(service primary.ShiftLogService, out io.Writer) *RecordAdapter {
	return &RecordAdapter{
		service: service,
		out:     out,
	}
}

func ok(format string, args ...any) string {
	return color.New(color.FgGreen).Sprint("✓") + " " + fmt.Sprintf(format, args...)
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// AddRequest creates a request.
func (a *RecordAdapter) AddRequest(ctx context.Context, in primary.RequestInput) error {
	r, err := a.service.CreateRequest(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, ok("Added request %s (#%s, %s)", r.ID, r.Num, r.Addr))
	return nil
}

// EditRequest replaces a request's fields.
func (a *RecordAdapter) EditRequest(ctx context.Context, id string, in primary.RequestInput) error {
	r, err := a.service.UpdateRequest(ctx, id, in)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, ok("Request %s updated", r.ID))
	return nil
}

// RemoveRequest deletes a request.
func (a *RecordAdapter) RemoveRequest(ctx context.Context, id string) error {
	if err := a.service.DeleteRequest(ctx, id); err != nil {
		return err
	}
	fmt.Fprintln(a.out, ok("Deleted request %s", id))
	return nil
}

// Stamp sets t1 or t2.
func (a *RecordAdapter) Stamp(ctx context.Context, id, stamp, at string) error {
	r, err := a.service.StampRequest(ctx, primary.StampRequest{RequestID: id, Stamp: stamp, At: at})
	if err != nil {
		return err
	}
	got := r.T1
	if stamp == primary.StampT2 {
		got = r.T2
	}
	fmt.Fprintln(a.out, ok("Request %s %s = %s", r.ID, stamp, models.StringValue(got)))
	return nil
}

// Finish sets t3 and the result.
func (a *RecordAdapter) Finish(ctx context.Context, id, result string) error {
	r, err := a.service.FinishRequest(ctx, id, result)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, ok("Request %s finished at %s (%s)", r.ID, models.StringValue(r.T3), dash(r.Result)))
	return nil
}

// ListRequests prints requests matching query, honoring column visibility.
func (a *RecordAdapter) ListRequests(ctx context.Context, query string) error {
	list, err := a.service.ListRequests(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to list requests: %w", err)
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No requests found")
		return nil
	}
	settings, err := a.service.GetSettings(ctx)
	if err != nil {
		return err
	}
	f := settings.UI.RequestFields

	type column struct {
		show  bool
		title string
		value func(models.Request) string
	}
	cols := []column{
		{true, "ID", func(r models.Request) string { return r.ID }},
		{f.Num, "NUM", func(r models.Request) string { return r.Num }},
		{f.Type, "TYPE", func(r models.Request) string { return dash(r.Type) }},
		{f.KUSP, "KUSP", func(r models.Request) string { return dash(r.KUSP) }},
		{f.Addr, "ADDR", func(r models.Request) string { return r.Addr }},
		{f.Desc && !settings.UI.Compact, "DESC", func(r models.Request) string { return dash(r.Desc) }},
		{f.T1, "T1", func(r models.Request) string { return dash(models.StringValue(r.T1)) }},
		{f.T2, "T2", func(r models.Request) string { return dash(models.StringValue(r.T2)) }},
		{f.T3, "T3", func(r models.Request) string { return dash(models.StringValue(r.T3)) }},
		{f.Result, "RESULT", func(r models.Request) string { return dash(r.Result) }},
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	var header []string
	for _, c := range cols {
		if c.show {
			header = append(header, c.title)
		}
	}
	fmt.Fprintln(w, strings.Join(header, "\t"))
	for _, r := range list {
		var row []string
		for _, c := range cols {
			if c.show {
				row = append(row, c.value(r))
			}
		}
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	return w.Flush()
}

// AddDelivered creates a delivered entry.
func (a *RecordAdapter) AddDelivered(ctx context.Context, in primary.DeliveredInput) error {
	d, err := a.service.CreateDelivered(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, ok("Added delivered %s (%s)", d.ID, d.Name))
	return nil
}

// EditDelivered replaces a delivered entry's fields.
func (a *RecordAdapter) EditDelivered(ctx context.Context, id string, in primary.DeliveredInput) error {
	d, err := a.service.UpdateDelivered(ctx, id, in)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, ok("Delivered %s updated", d.ID))
	return nil
}

// RemoveDelivered deletes a delivered entry.
func (a *RecordAdapter) RemoveDelivered(ctx context.Context, id string) error {
	if err := a.service.DeleteDelivered(ctx, id); err != nil {
		return err
	}
	fmt.Fprintln(a.out, ok("Deleted delivered %s", id))
	return nil
}

// ListDelivered prints delivered entries matching query.
func (a *RecordAdapter) ListDelivered(ctx context.Context, query string) error {
	list, err := a.service.ListDelivered(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to list delivered: %w", err)
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No delivered entries found")
		return nil
	}
	settings, err := a.service.GetSettings(ctx)
	if err != nil {
		return err
	}
	f := settings.UI.DeliveredFields

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	header := []string{"ID"}
	if f.FIO {
		header = append(header, "NAME")
	}
	if f.Time {
		header = append(header, "TIME")
	}
	if f.Reason {
		header = append(header, "REASON")
	}
	fmt.Fprintln(w, strings.Join(header, "\t"))
	for _, d := range list {
		row := []string{d.ID}
		if f.FIO {
			row = append(row, d.Name)
		}
		if f.Time {
			row = append(row, dash(models.StringValue(d.Time)))
		}
		if f.Reason {
			row = append(row, dash(d.Reason))
		}
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	return w.Flush()
}

// AddAssist creates an assist entry. Intervals over 12h come back with a
// hint to pass --confirm.
func (a *RecordAdapter) AddAssist(ctx context.Context, in primary.AssistInput) error {
	e, err := a.service.CreateAssist(ctx, in)
	if err != nil {
		return confirmHint(err)
	}
	fmt.Fprintln(a.out, ok("Added assist %s (%s, %s)", e.ID, e.Service, clock.Format(e.Minutes)))
	return nil
}

// EditAssist replaces an assist entry's fields.
func (a *RecordAdapter) EditAssist(ctx context.Context, id string, in primary.AssistInput) error {
	e, err := a.service.UpdateAssist(ctx, id, in)
	if err != nil {
		return confirmHint(err)
	}
	fmt.Fprintln(a.out, ok("Assist %s updated (%s)", e.ID, clock.Format(e.Minutes)))
	return nil
}

func confirmHint(err error) error {
	if errors.Is(err, primary.ErrConfirmationRequired) {
		return fmt.Errorf("%w (re-run with --confirm)", err)
	}
	return err
}

// RemoveAssist deletes an assist entry.
func (a *RecordAdapter) RemoveAssist(ctx context.Context, id string) error {
	if err := a.service.DeleteAssist(ctx, id); err != nil {
		return err
	}
	fmt.Fprintln(a.out, ok("Deleted assist %s", id))
	return nil
}

// ListAssists prints assists matching query and the shift total.
func (a *RecordAdapter) ListAssists(ctx context.Context, query string) error {
	list, err := a.service.ListAssists(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to list assists: %w", err)
	}
	if len(list.Assists) == 0 {
		fmt.Fprintln(a.out, "No assists found")
		return nil
	}
	settings, err := a.service.GetSettings(ctx)
	if err != nil {
		return err
	}
	f := settings.UI.AssistFields

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	header := []string{"ID"}
	for _, c := range []struct {
		show  bool
		title string
	}{{f.Service, "SERVICE"}, {f.Note, "NOTE"}, {f.Start, "START"}, {f.End, "END"}, {f.Delta, "DELTA"}} {
		if c.show {
			header = append(header, c.title)
		}
	}
	fmt.Fprintln(w, strings.Join(header, "\t"))
	for _, e := range list.Assists {
		row := []string{e.ID}
		if f.Service {
			row = append(row, e.Service)
		}
		if f.Note {
			row = append(row, dash(e.Note))
		}
		if f.Start {
			row = append(row, e.Start)
		}
		if f.End {
			row = append(row, e.End)
		}
		if f.Delta {
			row = append(row, clock.Format(e.Minutes))
		}
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Total: %s\n", clock.Format(list.TotalMinutes))
	return nil
}

// FindRequest returns the active request with id.
func (a *RecordAdapter) FindRequest(ctx context.Context, id string) (*models.Request, error) {
	list, err := a.service.ListRequests(ctx, "")
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].ID == id {
			return &list[i], nil
		}
	}
	return nil, fmt.Errorf("request %s: %w", id, primary.ErrNotFound)
}

// FindDelivered returns the delivered entry with id.
func (a *RecordAdapter) FindDelivered(ctx context.Context, id string) (*models.DeliveredEntry, error) {
	list, err := a.service.ListDelivered(ctx, "")
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].ID == id {
			return &list[i], nil
		}
	}
	return nil, fmt.Errorf("delivered entry %s: %w", id, primary.ErrNotFound)
}

// FindAssist returns the assist entry with id.
func (a *RecordAdapter) FindAssist(ctx context.Context, id string) (*models.AssistEntry, error) {
	list, err := a.service.ListAssists(ctx, "")
	if err != nil {
		return nil, err
	}
	for i := range list.Assists {
		if list.Assists[i].ID == id {
			return &list.Assists[i], nil
		}
	}
	return nil, fmt.Errorf("assist %s: %w", id, primary.ErrNotFound)
}
