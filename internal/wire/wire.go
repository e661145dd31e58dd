//go:build wireinject

package wire

import (
	"github.com/google/wire"

	"github.com/sevigo/codewarden-kit/internal/bootstrap"
)

// InitializeApp builds a *bootstrap.App by running ProviderSet through
// wire's compile-time dependency graph. wire_gen.go holds the generated
// (here, hand-written to match what `wire` would emit) implementation this
// build-tagged file describes.
func InitializeApp() (*bootstrap.App, error) {
	wire.Build(ProviderSet)
	return nil, nil
}
