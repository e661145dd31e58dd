package main

import "github.com/sevigo/codewarden-kit/internal/bootstrap"

// app is the CLI's name for the shared wiring graph; cmd/toolcall builds the
// same graph via bootstrap.New directly, cmd/server via wire.InitializeApp.
type app = bootstrap.App

func newApp() (*app, error) {
	return bootstrap.New()
}
