package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
)

var statusColor = color.New(color.FgCyan)

// status prints a colorized progress line to stderr, suppressed entirely in
// --plain/pipe mode per the CLI's "plain mode suppresses all status
// chatter" contract.
func status(format string, args ...any) {
	if flagPlain {
		return
	}
	statusColor.Fprintf(os.Stderr, format+"\n", args...)
}

// printJSON writes v to stdout as indented JSON, matching the teacher's
// preference for human-readable CLI output over raw encoding.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// openRepo materializes a handle for pathOrURL at the global --ref flag and
// returns its id, so callers can chain further Core calls against the same
// open handle.
func openRepo(a *app, pathOrURL string) (string, error) {
	id, err := a.Service.OpenRepository(context.Background(), pathOrURL, flagRef, "")
	if err != nil {
		return "", fmt.Errorf("open repository %q: %w", pathOrURL, err)
	}
	return id, nil
}
