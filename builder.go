// File: telvaren/config/builder.go
package config

import (
	"errors"
	"fmt"
	"reflect"
)

// Builder provides a fluent interface for assembling a Config. Sources are
// probed in the order they are added, so add the highest-priority source
// first (typically CLI, then env, then file).
type Builder struct {
	cfg *Config
	err error
}

// NewBuilder creates a new configuration builder
func NewBuilder() *Builder {
	return &Builder{cfg: New()}
}

// WithSource appends a source with lower priority than all sources added
// before it.
func (b *Builder) WithSource(s Source) *Builder {
	if b.err != nil {
		return b
	}
	if s == nil {
		b.err = fmt.Errorf("cannot add nil source")
		return b
	}
	b.cfg.AddSource(s)
	return b
}

// WithMap appends an in-memory map source.
func (b *Builder) WithMap(name string, values map[string]string) *Builder {
	return b.WithSource(NewMapSource(name, values))
}

// WithArgs appends a command-line argument source.
func (b *Builder) WithArgs(args []string) *Builder {
	if b.err != nil {
		return b
	}
	src, err := NewArgsSource(args)
	if err != nil {
		b.err = fmt.Errorf("failed to parse CLI args: %w", err)
		return b
	}
	b.cfg.AddSource(src)
	return b
}

// WithEnv appends an environment variable source with the given prefix.
func (b *Builder) WithEnv(prefix string) *Builder {
	return b.WithSource(NewEnvSource(prefix))
}

// WithFile appends a file source. A missing file is not fatal; the source
// is simply skipped and the application can proceed with the remaining
// sources.
func (b *Builder) WithFile(path string) *Builder {
	if b.err != nil {
		return b
	}
	src, err := NewFileSource(path)
	if err != nil {
		if errors.Is(err, ErrConfigNotFound) {
			return b
		}
		b.err = err
		return b
	}
	b.cfg.AddSource(src)
	return b
}

// WithConverter registers a converter under the given name and result type.
func (b *Builder) WithConverter(name string, typ reflect.Type, conv Converter) *Builder {
	if b.err != nil {
		return b
	}
	if err := b.cfg.RegisterConverter(name, typ, conv); err != nil {
		b.err = err
	}
	return b
}

// Build returns the assembled Config, or the first error recorded while
// assembling it.
func (b *Builder) Build() (*Config, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.cfg, nil
}

// MustBuild is like Build but panics on error
func (b *Builder) MustBuild() *Config {
	cfg, err := b.Build()
	if err != nil {
		panic(fmt.Sprintf("config build failed: %v", err))
	}
	return cfg
}
