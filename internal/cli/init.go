package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/example/shiftlog/internal/config"
	"github.com/example/shiftlog/internal/wire"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the shiftlog home",
		Long: `Create the shiftlog home (default ~/.shiftlog), open the configured store,
and write config.yaml with the defaults if it does not exist yet.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			// Opening the service creates the store and its schema
			service, err := wire.ShiftLogService()
			if err != nil {
				return fmt.Errorf("failed to open store: %w", err)
			}
			c, err := wire.Config()
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "✓ Store ready: %s (%s)\n", c.StorePath(), c.Store.Driver)

			path := filepath.Join(c.Home, config.FileName)
			if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
				if err := config.SaveConfig(c.Home, c); err != nil {
					return err
				}
				fmt.Fprintf(out, "✓ Config written: %s\n", path)
			} else if err != nil {
				return fmt.Errorf("failed to check config: %w", err)
			} else {
				fmt.Fprintf(out, "✓ Config exists: %s\n", path)
			}

			fmt.Fprintf(out, "  Data loaded: %s\n", service.LoadOutcome(cmd.Context()))
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Next steps:")
			fmt.Fprintln(out, "  shiftlog request add --num 1 --type noise --addr \"Lenina 5\"")
			fmt.Fprintln(out, "  shiftlog shell")

			return nil
		},
	}
}
