package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/shiftlog/internal/wire"
)

// ShiftCmd returns the shift command
func ShiftCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shift",
		Short: "Work with the active shift",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "close",
		Short: "Archive the active shift and start an empty one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter, err := wire.ArchiveAdapter(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return adapter.CloseShift(cmd.Context())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Show counts and response times of the active shift",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter, err := wire.ArchiveAdapter(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return adapter.Stats(cmd.Context())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "export [path]",
		Short: "Write the active shift to a JSON file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter, err := wire.ArchiveAdapter(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return adapter.ExportShift(cmd.Context(), firstArg(args))
		},
	})

	return cmd
}

// ArchiveCmd returns the archive command
func ArchiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Browse closed shifts",
	}

	cmd.AddCommand(&cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List archived shifts, most recent first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter, err := wire.ArchiveAdapter(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return adapter.ListArchive(cmd.Context())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show [shift-id]",
		Short: "Show an archived shift",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter, err := wire.ArchiveAdapter(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return adapter.ShowArchived(cmd.Context(), args[0])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "export [shift-id] [path]",
		Short: "Write an archived shift to a JSON file",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter, err := wire.ArchiveAdapter(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return adapter.ExportArchived(cmd.Context(), args[0], firstArg(args[1:]))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:     "rm [shift-id]",
		Aliases: []string{"delete"},
		Short:   "Delete an archived shift",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter, err := wire.ArchiveAdapter(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return adapter.RemoveArchived(cmd.Context(), args[0])
		},
	})

	return cmd
}
