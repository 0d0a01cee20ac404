package cli

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/shiftlog/internal/wire"
)

// CheckResult represents the outcome of a single check
type CheckResult struct {
	Name    string
	Status  string // "✓", "⚠", "✗"
	Details string // Only shown if Status != "✓"
}

// DoctorCmd returns the doctor command for storage diagnostics
func DoctorCmd() *cobra.Command {
	var quiet bool
	var showMetrics bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration, storage and backups",
		Long: `Health check for the shiftlog store.

Reports:
- Configuration (home, driver, store path, keys)
- How the data was loaded (fresh, recovered from backup, defaulted)
- Backup ring contents
- Per-key sizes when the store is SQLite

Examples:
  shiftlog doctor            # Run full health check
  shiftlog doctor --quiet    # Exit code only (0=healthy, 1=issues)
  shiftlog doctor --metrics  # Also print persistence counters`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			results := []CheckResult{
				checkConfig(out, quiet),
				checkLoad(cmd),
				checkBackups(cmd),
				checkStore(cmd, out, quiet),
			}

			hasErrors := false
			for _, r := range results {
				if r.Status == "✗" {
					hasErrors = true
					break
				}
			}

			if !quiet {
				fmt.Fprintln(out)
				fmt.Fprintln(out, "Check              Status")
				fmt.Fprintln(out, "─────────────────────────")
				for _, r := range results {
					fmt.Fprintf(out, "%-18s %s\n", r.Name, r.Status)
				}
				fmt.Fprintln(out)

				hasDetails := false
				for _, r := range results {
					if r.Status != "✓" && r.Details != "" {
						if !hasDetails {
							fmt.Fprintln(out, "Details:")
							hasDetails = true
						}
						fmt.Fprintf(out, "\n%s:\n%s\n", r.Name, r.Details)
					}
				}

				if showMetrics {
					printMetrics(out)
				}

				if hasErrors {
					fmt.Fprintln(out, "\n⚠ Issues found.")
				} else {
					fmt.Fprintln(out, "All checks passed.")
				}
			}

			if hasErrors {
				return fmt.Errorf("health check failed")
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Quiet mode - exit code only")
	cmd.Flags().BoolVar(&showMetrics, "metrics", false, "Print persistence counters")

	return cmd
}

// checkConfig loads the configuration and prints where things live
func checkConfig(out io.Writer, quiet bool) CheckResult {
	c, err := wire.Config()
	if err != nil {
		return CheckResult{Name: "Config", Status: "✗", Details: "  " + err.Error()}
	}
	if !quiet {
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "Home:\t%s\n", c.Home)
		fmt.Fprintf(w, "Driver:\t%s\n", c.Store.Driver)
		fmt.Fprintf(w, "Store:\t%s\n", c.StorePath())
		fmt.Fprintf(w, "Keys:\t%s, %s, %s\n", c.Keys.Data, c.Keys.Settings, c.Keys.Backups)
		fmt.Fprintf(w, "Backups:\t%d\n", c.Backups)
		fmt.Fprintf(w, "Debounce:\t%s\n", c.DebounceWindow())
		w.Flush()
	}
	return CheckResult{Name: "Config", Status: "✓"}
}

// checkLoad reports whether the data came from the primary key
func checkLoad(cmd *cobra.Command) CheckResult {
	service, err := wire.ShiftLogService()
	if err != nil {
		return CheckResult{Name: "Data", Status: "✗", Details: "  " + err.Error()}
	}
	switch outcome := service.LoadOutcome(cmd.Context()); outcome {
	case "fresh":
		return CheckResult{Name: "Data", Status: "✓"}
	case "recovered":
		return CheckResult{
			Name:    "Data",
			Status:  "⚠",
			Details: "  Primary data was unreadable; restored from the newest usable backup",
		}
	default:
		return CheckResult{
			Name:    "Data",
			Status:  "⚠",
			Details: fmt.Sprintf("  Load outcome %q: no stored data or backup, started empty", outcome),
		}
	}
}

// checkBackups warns when the ring is empty
func checkBackups(cmd *cobra.Command) CheckResult {
	service, err := wire.ShiftLogService()
	if err != nil {
		return CheckResult{Name: "Backups", Status: "✗", Details: "  " + err.Error()}
	}
	backups, err := service.ListBackups(cmd.Context())
	if err != nil {
		return CheckResult{Name: "Backups", Status: "✗", Details: "  " + err.Error()}
	}
	if len(backups) == 0 {
		return CheckResult{
			Name:    "Backups",
			Status:  "⚠",
			Details: "  No backups yet\n  Run: shiftlog backup now",
		}
	}
	latest := time.UnixMilli(backups[0].Timestamp).Format("2006-01-02 15:04")
	return CheckResult{Name: "Backups", Status: "✓", Details: fmt.Sprintf("  %d, latest %s", len(backups), latest)}
}

// checkStore lists per-key sizes for the SQLite store
func checkStore(cmd *cobra.Command, out io.Writer, quiet bool) CheckResult {
	stats, ok, err := wire.StoreStats(cmd.Context())
	if err != nil {
		return CheckResult{Name: "Store", Status: "✗", Details: "  " + err.Error()}
	}
	if !ok || quiet {
		return CheckResult{Name: "Store", Status: "✓"}
	}
	fmt.Fprintln(out)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tBYTES\tUPDATED")
	for _, s := range stats {
		updated := "-"
		if s.UpdatedAt.Valid {
			updated = s.UpdatedAt.String
		}
		fmt.Fprintf(w, "%s\t%d\t%s\n", s.Key, s.Size, updated)
	}
	w.Flush()
	return CheckResult{Name: "Store", Status: "✓"}
}

func printMetrics(out io.Writer) {
	samples, err := wire.Metrics().Gather()
	if err != nil {
		fmt.Fprintf(os.Stderr, "metrics: %v\n", err)
		return
	}
	fmt.Fprintln(out, "Metrics:")
	for _, s := range samples {
		fmt.Fprintf(out, "  %s %g\n", s.Name, s.Value)
	}
	fmt.Fprintln(out)
}
