//go:build wireinject
// +build wireinject

package wire

import (
	"github.com/bilalnawaz072/Gemeni-Game-Studio/server"
	"github.com/google/wire"
)

// InitializeApp builds the HTTP application.
func InitializeApp(path ConfigPath) (*server.App, func(), error) {
	wire.Build(FullSet)
	return nil, nil, nil
}

// InitializeStore opens only the game store, for offline commands.
func InitializeStore(path ConfigPath) (*StoreRuntime, func(), error) {
	wire.Build(DefaultSet, wire.Struct(new(StoreRuntime), "*"))
	return nil, nil, nil
}
