package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/shiftlog/internal/wire"
)

// BackupCmd returns the backup command
func BackupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Inspect and use the rolling backup ring",
		Long: `Every successful write of the shift data also records a snapshot in a
bounded ring (5 entries by default). Backups survive "shiftlog clear".`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List backups, most recent first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter, err := wire.ArchiveAdapter(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return adapter.ListBackups(cmd.Context())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "now",
		Short: "Write the data immediately and record a backup",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter, err := wire.ArchiveAdapter(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return adapter.BackupNow(cmd.Context())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "restore",
		Short: "Replace the data with the newest usable backup",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter, err := wire.ArchiveAdapter(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return adapter.RestoreLatest(cmd.Context())
		},
	})

	return cmd
}

// ExportCmd returns the export command
func ExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [path]",
		Short: "Write data and settings to a JSON file",
		Long: `Write data and settings to a JSON file. A directory or no path writes
shiftmanager-backup-<timestamp>.json there or in the current directory.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter, err := wire.ArchiveAdapter(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return adapter.ExportAll(cmd.Context(), firstArg(args))
		},
	}
}

// ImportCmd returns the import command
func ImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import [path]",
		Short: "Replace data (and settings, if present) from a JSON file",
		Long: `Replace data from an export file. Accepts the export document with or without
metadata, and a bare data document. Records keep their ids.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter, err := wire.ArchiveAdapter(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return adapter.Import(cmd.Context(), args[0])
		},
	}
}

// ClearCmd returns the clear command
func ClearCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Reset data and settings to defaults (backups are kept)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				fmt.Fprint(cmd.OutOrStdout(), "Delete all shift data and settings? [y/N] ")
				answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
					fmt.Fprintln(cmd.OutOrStdout(), "Aborted")
					return nil
				}
			}
			adapter, err := wire.ArchiveAdapter(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return adapter.Clear(cmd.Context())
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}
