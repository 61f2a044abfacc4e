//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"io"

	"github.com/google/wire"

	"github.com/zeusync/bounce/internal/config"
)

func InitializeApp(cfg *config.Config, out io.Writer) (*App, func(), error) {
	wire.Build(ProviderSet)
	return nil, nil, nil
}
