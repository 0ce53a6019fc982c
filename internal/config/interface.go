package config

import "context"

// Loader is the interface for a format-specific configuration loader. It
// reads one file or a directory tree and translates everything found into
// the format-agnostic Model.
type Loader interface {
	Load(ctx context.Context, path string) (*Model, error)
}
