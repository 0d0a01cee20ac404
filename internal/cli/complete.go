package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/example/shiftlog/internal/core/dictionary"
	"github.com/example/shiftlog/internal/wire"
)

// suggestLimit caps how many dictionary entries a shell completion offers.
const suggestLimit = 20

type dictionaryLookup func(ctx context.Context, kind string) ([]string, error)

// storedDictionary reads a dictionary from the configured store.
func storedDictionary(ctx context.Context, kind string) ([]string, error) {
	service, err := wire.ShiftLogService()
	if err != nil {
		return nil, err
	}
	return service.GetDictionary(ctx, kind)
}

// dictionaryCompletion completes a flag value from one dictionary, most
// recently used first.
func dictionaryCompletion(kind string, lookup dictionaryLookup) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		list, err := lookup(ctx, kind)
		if err != nil {
			cobra.CompDebugln("dictionary "+kind+": "+err.Error(), true)
			return nil, cobra.ShellCompDirectiveError
		}
		return dictionary.Suggest(list, toComplete, suggestLimit), cobra.ShellCompDirectiveNoFileComp
	}
}

// completeFromDictionary registers dictionary completion for flag.
func completeFromDictionary(cmd *cobra.Command, flag, kind string) {
	cobra.CheckErr(cmd.RegisterFlagCompletionFunc(flag, dictionaryCompletion(kind, storedDictionary)))
}
