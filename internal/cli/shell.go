package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// ShellCmd returns the shell command, an interactive loop that keeps one
// process (and its debounced writes) alive for a whole shift.
func ShellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Run shiftlog commands interactively",
		Long: `Run shiftlog commands one per line without restarting, so pending writes are
coalesced. Type "exit" or press Ctrl-D to leave; pending writes are flushed.

Example:
  shiftlog> req add -n 123 -t noise -a "Lenina 5"
  shiftlog> req stamp <id> t1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr(), promptFor(cmd.InOrStdin()))
		},
	}
}

func promptFor(in io.Reader) string {
	if f, ok := in.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return "shiftlog> "
	}
	return ""
}

// runShell reads lines until EOF, "exit", or ctx is cancelled.
func runShell(ctx context.Context, in io.Reader, out, errOut io.Writer, prompt string) error {
	lines := make(chan string)
	readErr := make(chan error, 1)
	done := make(chan struct{})
	defer close(done)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			case <-done:
				return
			}
		}
		readErr <- scanner.Err()
	}()

	for {
		fmt.Fprint(out, prompt)
		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-readErr:
					return err
				default:
					return nil
				}
			}
			args, err := splitArgs(line)
			if err != nil {
				fmt.Fprintf(errOut, "Error: %v\n", err)
				continue
			}
			if len(args) == 0 {
				continue
			}
			switch args[0] {
			case "exit", "quit":
				return nil
			case "shell":
				fmt.Fprintln(errOut, "Error: already in the shell")
				continue
			}
			runLine(ctx, args, out, errOut)
		}
	}
}

// runLine executes one command. Input belongs to the shell, so commands
// that would prompt see EOF.
func runLine(ctx context.Context, args []string, out, errOut io.Writer) {
	root := RootCmd()
	root.SetArgs(args)
	root.SetIn(strings.NewReader(""))
	root.SetOut(out)
	root.SetErr(errOut)
	// cobra prints the error itself unless SilenceErrors is set
	_ = root.ExecuteContext(ctx)
}

var errUnterminatedQuote = errors.New("unterminated quote")

// splitArgs splits a line into words. Single quotes are literal; inside
// double quotes or bare words a backslash escapes the next character.
func splitArgs(line string) ([]string, error) {
	var (
		args    []string
		cur     strings.Builder
		inWord  bool
		quote   rune
		escaped bool
	)
	for _, r := range line {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case quote == '\'':
			if r == '\'' {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case quote == '"':
			switch r {
			case '"':
				quote = 0
			case '\\':
				escaped = true
			default:
				cur.WriteRune(r)
			}
		case r == '\\':
			escaped = true
			inWord = true
		case r == '\'' || r == '"':
			quote = r
			inWord = true
		case r == ' ' || r == '\t':
			if inWord {
				args = append(args, cur.String())
				cur.Reset()
				inWord = false
			}
		default:
			cur.WriteRune(r)
			inWord = true
		}
	}
	if quote != 0 || escaped {
		return nil, errUnterminatedQuote
	}
	if inWord {
		args = append(args, cur.String())
	}
	return args, nil
}
