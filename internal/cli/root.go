package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/shiftlog/internal/version"
	"github.com/example/shiftlog/internal/wire"
)

// RootCmd builds the shiftlog command tree. Every call returns a fresh tree
// so the shell can run each line without flag values carrying over.
func RootCmd() *cobra.Command {
	var opts wire.Options

	cmd := &cobra.Command{
		Use:     "shiftlog",
		Short:   "shiftlog - duty shift log",
		Version: version.String(),
		Long: `shiftlog records service requests, delivered persons and assists during a
duty shift, archives closed shifts, and keeps a rolling backup of the data.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			wire.Configure(opts)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Home, "home", "", "Data and config directory (default: $SHIFTLOG_HOME or ~/.shiftlog)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Debug logging on stderr")
	cmd.PersistentFlags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Do not print the shift summary after changes")

	cmd.AddCommand(InitCmd())

	// Records
	cmd.AddCommand(RequestCmd())
	cmd.AddCommand(DeliveredCmd())
	cmd.AddCommand(AssistCmd())

	// Shift and archive
	cmd.AddCommand(ShiftCmd())
	cmd.AddCommand(ArchiveCmd())

	// Settings
	cmd.AddCommand(DictCmd())
	cmd.AddCommand(PrefsCmd())

	// Data safety
	cmd.AddCommand(BackupCmd())
	cmd.AddCommand(ExportCmd())
	cmd.AddCommand(ImportCmd())
	cmd.AddCommand(ClearCmd())

	// Tools
	cmd.AddCommand(DoctorCmd())
	cmd.AddCommand(ShellCmd())
	cmd.AddCommand(VersionCmd())

	return cmd
}

// VersionCmd returns the version command
func VersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}
