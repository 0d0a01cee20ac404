package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/example/shiftlog/internal/core/dictionary"
	"github.com/example/shiftlog/internal/wire"
)

// DictCmd returns the dict command
func DictCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dict",
		Short: "View and edit autocomplete dictionaries",
		Long: `Dictionaries remember previously used request types, results, reasons and
services, most recent first.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:       "ls [types|results|reasons|services]",
		Aliases:   []string{"list"},
		Short:     "Show one or all dictionaries",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"types", "results", "reasons", "services"},
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter, err := wire.SettingsAdapter(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return adapter.ListDictionary(cmd.Context(), firstArg(args))
		},
	})

	cmd.AddCommand(dictSetCmd())

	return cmd
}

func dictSetCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "set [kind] [value...]",
		Short: "Replace a dictionary",
		Long: `Replace a dictionary with the given values, or with one value per line read
from --file ("-" for stdin). Values are trimmed and deduplicated.

Examples:
  shiftlog dict set services EMS Fire Gas
  shiftlog dict set results --file results.txt`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values := args[1:]
			if file != "" {
				text, err := readInput(cmd, file)
				if err != nil {
					return err
				}
				values = dictionary.ParseLines(text, 0)
			}
			adapter, err := wire.SettingsAdapter(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return adapter.SetDictionary(cmd.Context(), args[0], values)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Read values from a file, one per line")
	return cmd
}

func readInput(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

// PrefsCmd returns the prefs command
func PrefsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "View and change display preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter, err := wire.SettingsAdapter(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return adapter.ShowPreferences(cmd.Context())
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:       "compact [on|off]",
		Short:     "Toggle compact output",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			on, err := parseOnOff(args[0])
			if err != nil {
				return err
			}
			adapter, err := wire.SettingsAdapter(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return adapter.SetCompact(cmd.Context(), on)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:       "start [shift|delivered|assists|settings]",
		Short:     "Choose the screen shown first",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"shift", "delivered", "assists", "settings"},
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter, err := wire.SettingsAdapter(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return adapter.SetStartScreen(cmd.Context(), args[0])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "field [request|delivered|assist] [field] [on|off]",
		Short: "Show or hide a list column",
		Long: `Show or hide a list column.

Fields:
  request:   num type kusp addr desc t1 t2 t3 result
  delivered: fio time reason
  assist:    service note start end delta`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			on, err := parseOnOff(args[2])
			if err != nil {
				return err
			}
			adapter, err := wire.SettingsAdapter(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return adapter.SetField(cmd.Context(), args[0], args[1], on)
		},
	})

	return cmd
}

func parseOnOff(s string) (bool, error) {
	switch s {
	case "on":
		return true, nil
	case "off":
		return false, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("expected on or off, got %q", s)
	}
	return b, nil
}
