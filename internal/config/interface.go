package config

import "context"

// Loader is the interface for a format-specific descriptor loader. A loader
// reads one descriptor file (or a directory of them), translates it into the
// format-agnostic model, and leaves all semantic validation to Validate.
type Loader interface {
	Load(ctx context.Context, path string) (*Model, error)
}
