package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"

	"github.com/example/shiftlog/internal/version"
)

// TestRootCmdStructure verifies every top-level command is registered.
func TestRootCmdStructure(t *testing.T) {
	root := RootCmd()

	want := []string{
		"archive", "assist", "backup", "clear", "delivered", "dict", "doctor",
		"export", "import", "init", "prefs", "request", "shell", "shift", "version",
	}
	var got []string
	for _, sub := range root.Commands() {
		switch sub.Name() {
		case "help", "completion":
			continue
		}
		if sub.Short == "" {
			t.Errorf("%s command should have a Short description", sub.Name())
		}
		got = append(got, sub.Name())
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("commands mismatch (-want +got):\n%s", diff)
	}
}

// TestRootCmdFresh verifies flag values do not leak between trees.
func TestRootCmdFresh(t *testing.T) {
	first := RootCmd()
	if err := first.PersistentFlags().Set("quiet", "true"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	second := RootCmd()
	if got := second.PersistentFlags().Lookup("quiet").Value.String(); got != "false" {
		t.Errorf("quiet = %s on a fresh tree, want false", got)
	}
}

func TestVersionCmd(t *testing.T) {
	var out bytes.Buffer
	cmd := VersionCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != version.String() {
		t.Errorf("output = %q, want %q", got, version.String())
	}
}

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    []string
		wantErr bool
	}{
		{name: "empty", line: "   ", want: nil},
		{name: "plain words", line: "req  ls\tnoise", want: []string{"req", "ls", "noise"}},
		{name: "double quotes", line: `req add -a "Lenina 5"`, want: []string{"req", "add", "-a", "Lenina 5"}},
		{name: "single quotes are literal", line: `note 'a \ b'`, want: []string{"note", `a \ b`}},
		{name: "escaped quote in double quotes", line: `x "say \"hi\""`, want: []string{"x", `say "hi"`}},
		{name: "backslash space", line: `a\ b c`, want: []string{"a b", "c"}},
		{name: "empty quoted word", line: `dict set results ""`, want: []string{"dict", "set", "results", ""}},
		{name: "adjacent quoted parts", line: `pre"fix suf"fix`, want: []string{"prefix suffix"}},
		{name: "unterminated double", line: `req add "oops`, wantErr: true},
		{name: "unterminated single", line: `req add 'oops`, wantErr: true},
		{name: "trailing backslash", line: `req add \`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := splitArgs(tt.line)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("splitArgs mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseOnOff(t *testing.T) {
	for in, want := range map[string]bool{"on": true, "off": false, "true": true, "0": false} {
		got, err := parseOnOff(in)
		if err != nil {
			t.Fatalf("parseOnOff(%q) failed: %v", in, err)
		}
		if got != want {
			t.Errorf("parseOnOff(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := parseOnOff("maybe"); err == nil {
		t.Error("expected error for maybe")
	}
}

func TestRunShell(t *testing.T) {
	in := strings.NewReader("\nversion\n\"unterminated\nshell\nexit\nversion\n")
	var out, errOut bytes.Buffer

	if err := runShell(context.Background(), in, &out, &errOut, "> "); err != nil {
		t.Fatalf("runShell failed: %v", err)
	}

	if got := strings.Count(out.String(), version.String()); got != 1 {
		t.Errorf("version printed %d times, want 1 (nothing after exit):\n%s", got, out.String())
	}
	if !strings.Contains(errOut.String(), "unterminated quote") {
		t.Errorf("missing quote error in %q", errOut.String())
	}
	if !strings.Contains(errOut.String(), "already in the shell") {
		t.Errorf("missing nested shell error in %q", errOut.String())
	}
}

func TestRunShell_EOF(t *testing.T) {
	var out, errOut bytes.Buffer
	if err := runShell(context.Background(), strings.NewReader("version"), &out, &errOut, ""); err != nil {
		t.Fatalf("runShell failed: %v", err)
	}
	if !strings.Contains(out.String(), version.String()) {
		t.Errorf("output = %q, want version", out.String())
	}
}

func TestRunShell_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out, errOut bytes.Buffer
	// A blocking reader would hang; an already-cancelled context returns at once.
	if err := runShell(ctx, blockingReader{}, &out, &errOut, ""); err != nil {
		t.Fatalf("runShell failed: %v", err)
	}
}

type blockingReader struct{}

func (blockingReader) Read([]byte) (int, error) { select {} }

func TestClearCmd_Aborts(t *testing.T) {
	var out bytes.Buffer
	cmd := ClearCmd()
	cmd.SetIn(strings.NewReader("n\n"))
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !strings.Contains(out.String(), "Aborted") {
		t.Errorf("output = %q, want Aborted", out.String())
	}
}

func TestDictionaryCompletion(t *testing.T) {
	lists := map[string][]string{
		"types":   {"Noise", "theft", "Domestic noise", "fight"},
		"results": {"warned"},
	}
	lookup := func(_ context.Context, kind string) ([]string, error) {
		return lists[kind], nil
	}

	tests := []struct {
		name       string
		kind       string
		toComplete string
		want       []string
	}{
		{name: "empty prefix keeps recency order", kind: "types", want: []string{"Noise", "theft", "Domestic noise", "fight"}},
		{name: "case-insensitive substring", kind: "types", toComplete: "noi", want: []string{"Noise", "Domestic noise"}},
		{name: "no match", kind: "types", toComplete: "zzz", want: nil},
		{name: "other kind", kind: "results", toComplete: "w", want: []string{"warned"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			complete := dictionaryCompletion(tt.kind, lookup)
			got, directive := complete(&cobra.Command{}, nil, tt.toComplete)
			if directive != cobra.ShellCompDirectiveNoFileComp {
				t.Errorf("directive = %v, want NoFileComp", directive)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("suggestions mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDictionaryCompletion_LookupError(t *testing.T) {
	complete := dictionaryCompletion("types", func(context.Context, string) ([]string, error) {
		return nil, errors.New("store locked")
	})
	got, directive := complete(&cobra.Command{}, nil, "")
	if directive != cobra.ShellCompDirectiveError {
		t.Errorf("directive = %v, want Error", directive)
	}
	if got != nil {
		t.Errorf("suggestions = %v, want none", got)
	}
}

// TestDictionaryFlagsComplete verifies the dictionary-backed flags offer completions.
func TestDictionaryFlagsComplete(t *testing.T) {
	tests := []struct {
		cmd  *cobra.Command
		flag string
	}{
		{requestAddCmd(), "type"},
		{requestAddCmd(), "result"},
		{requestEditCmd(), "type"},
		{requestFinishCmd(), "result"},
		{deliveredAddCmd(), "reason"},
		{deliveredEditCmd(), "reason"},
		{assistAddCmd(), "service"},
		{assistEditCmd(), "service"},
	}
	for _, tt := range tests {
		if _, ok := tt.cmd.GetFlagCompletionFunc(tt.flag); !ok {
			t.Errorf("%s --%s has no completion", tt.cmd.Name(), tt.flag)
		}
	}
}
