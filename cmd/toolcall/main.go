// Command toolcall runs Gateway-ToolCall standalone over stdio, for agent
// harnesses that spawn a dedicated process rather than calling `kit serve
// --toolcall`.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/sevigo/codewarden-kit/internal/bootstrap"
	"github.com/sevigo/codewarden-kit/internal/toolcall"
)

func main() {
	if err := run(); err != nil {
		slog.Error("toolcall gateway failed to run", "error", err)
		os.Exit(1)
	}
}

func run() error {
	a, err := bootstrap.New()
	if err != nil {
		return fmt.Errorf("build app wiring: %w", err)
	}
	defer a.CloseDB()

	gw := toolcall.New(a.Service, a.Log)
	return gw.Serve(context.Background(), os.Stdin, os.Stdout)
}
