package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"

	"github.com/example/shiftlog/internal/core/clock"
	"github.com/example/shiftlog/internal/ports/primary"
)

// ArchiveAdapter translates shift, archive, backup and transfer commands to
// ShiftLogService calls.
type ArchiveAdapter struct {
	service primary.ShiftLogService
	out     io.Writer
}

// NewArchiveAdapter creates a new ArchiveAdapter with the given service.
func NewArchiveAdapter(service primary.ShiftLogService, out io.Writer) *ArchiveAdapter {
	return &ArchiveAdapter{
		service: service,
		out:     out,
	}
}

func formatMillis(ms int64) string {
	return time.UnixMilli(ms).Format("2006-01-02 15:04")
}

func formatMins(m int) string {
	if m < 0 {
		return "-"
	}
	return clock.Format(m)
}

// CloseShift archives the active shift.
func (a *ArchiveAdapter) CloseShift(ctx context.Context) error {
	archived, err := a.service.CloseShift(ctx)
	if errors.Is(err, primary.ErrEmptyShift) {
		fmt.Fprintln(a.out, "Nothing to close: the shift is empty")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, ok("Closed shift %s: %d requests, %d delivered, %d assists",
		archived.ID, len(archived.Requests), len(archived.Delivered), len(archived.Assists)))
	return nil
}

// Stats prints the active shift summary.
func (a *ArchiveAdapter) Stats(ctx context.Context) error {
	st, err := a.service.ShiftStats(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Requests:      %d (%d completed)\n", st.Requests, st.Completed)
	fmt.Fprintf(a.out, "Delivered:     %d\n", st.Delivered)
	fmt.Fprintf(a.out, "Assists:       %d (%s)\n", st.Assists, clock.Format(st.AssistTotalMins))
	fmt.Fprintf(a.out, "Response avg:  %s\n", formatMins(st.AvgResponseMins))
	fmt.Fprintf(a.out, "Response max:  %s\n", formatMins(st.MaxResponseMins))
	fmt.Fprintf(a.out, "Archived:      %d shifts\n", st.ArchivedShifts)
	return nil
}

// ExportShift writes the active shift.
func (a *ArchiveAdapter) ExportShift(ctx context.Context, dest string) error {
	path, err := a.service.ExportCurrentShift(ctx, dest)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, ok("Exported shift to %s", path))
	return nil
}

// ListArchive prints archived shifts.
func (a *ArchiveAdapter) ListArchive(ctx context.Context) error {
	shifts, err := a.service.ListArchive(ctx)
	if err != nil {
		return fmt.Errorf("failed to list archive: %w", err)
	}
	if len(shifts) == 0 {
		fmt.Fprintln(a.out, "Archive is empty")
		return nil
	}
	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCLOSED\tREQUESTS\tDELIVERED\tASSISTS")
	for _, s := range shifts {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\n", s.ID, formatMillis(s.ClosedAt), len(s.Requests), len(s.Delivered), len(s.Assists))
	}
	return w.Flush()
}

// ShowArchived prints one archived shift.
func (a *ArchiveAdapter) ShowArchived(ctx context.Context, id string) error {
	s, err := a.service.GetArchivedShift(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "\nShift:  %s\n", s.ID)
	fmt.Fprintf(a.out, "Closed: %s\n\n", formatMillis(s.ClosedAt))
	if len(s.Requests) > 0 {
		fmt.Fprintln(a.out, "Requests:")
		for _, r := range s.Requests {
			fmt.Fprintf(a.out, "  - #%s %s [%s]\n", r.Num, r.Addr, dash(r.Result))
		}
	}
	if len(s.Delivered) > 0 {
		fmt.Fprintln(a.out, "Delivered:")
		for _, d := range s.Delivered {
			fmt.Fprintf(a.out, "  - %s (%s)\n", d.Name, dash(d.Reason))
		}
	}
	if len(s.Assists) > 0 {
		fmt.Fprintln(a.out, "Assists:")
		for _, e := range s.Assists {
			fmt.Fprintf(a.out, "  - %s %s-%s (%s)\n", e.Service, e.Start, e.End, clock.Format(e.Minutes))
		}
	}
	fmt.Fprintln(a.out)
	return nil
}

// ExportArchived writes one archived shift.
func (a *ArchiveAdapter) ExportArchived(ctx context.Context, id, dest string) error {
	path, err := a.service.ExportArchivedShift(ctx, id, dest)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, ok("Exported shift %s to %s", id, path))
	return nil
}

// RemoveArchived deletes an archived shift.
func (a *ArchiveAdapter) RemoveArchived(ctx context.Context, id string) error {
	if err := a.service.DeleteArchivedShift(ctx, id); err != nil {
		return err
	}
	fmt.Fprintln(a.out, ok("Deleted archived shift %s", id))
	return nil
}

// ListBackups prints the backup ring.
func (a *ArchiveAdapter) ListBackups(ctx context.Context) error {
	backups, err := a.service.ListBackups(ctx)
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		fmt.Fprintln(a.out, "No backups")
		return nil
	}
	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tTAKEN\tREQUESTS\tDELIVERED\tASSISTS\tSHIFTS")
	for i, b := range backups {
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%d\t%d\n", i+1, formatMillis(b.Timestamp), b.Requests, b.Delivered, b.Assists, b.Shifts)
	}
	return w.Flush()
}

// BackupNow writes immediately, which records a backup.
func (a *ArchiveAdapter) BackupNow(ctx context.Context) error {
	if err := a.service.BackupNow(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, ok("Backup recorded"))
	return nil
}

// RestoreLatest replaces live data with the newest usable backup.
func (a *ArchiveAdapter) RestoreLatest(ctx context.Context) error {
	info, err := a.service.RestoreLatestBackup(ctx)
	if errors.Is(err, primary.ErrNoBackups) {
		fmt.Fprintln(a.out, "No usable backup to restore")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, ok("Restored backup from %s (%d requests, %d shifts)",
		formatMillis(info.Timestamp), info.Requests, info.Shifts))
	return nil
}

// ExportAll writes the full export document.
func (a *ArchiveAdapter) ExportAll(ctx context.Context, dest string) error {
	res, err := a.service.ExportAll(ctx, dest)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, ok("Exported everything to %s", res.Path))
	return nil
}

// Import replaces data from a file.
func (a *ArchiveAdapter) Import(ctx context.Context, src string) error {
	res, err := a.service.Import(ctx, src)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, ok("Imported %d requests, %d delivered, %d assists, %d archived shifts",
		res.Requests, res.Delivered, res.Assists, res.Shifts))
	if res.SettingsApplied {
		fmt.Fprintln(a.out, "  settings replaced")
	}
	return nil
}

// Clear resets everything except backups.
func (a *ArchiveAdapter) Clear(ctx context.Context) error {
	if err := a.service.ClearAll(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, ok("Cleared data and settings"), color.New(color.FgYellow).Sprint("(backups kept)"))
	return nil
}
