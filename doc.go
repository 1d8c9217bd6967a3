// File: telvaren/config/doc.go

// Package config provides typed, chainable property accessors over an
// ordered set of configuration sources: in-memory maps, environment
// variables, command-line arguments, and TOML/JSON/YAML files.
//
// The central type is the Accessor. A Config hands out a bare accessor
// for a property name; every customization (rename, attach a converter,
// attach a default, wrap as optional) returns a fresh accessor and never
// touches the one it was derived from. Resolution is lazy and uncached:
// each Value call walks the sources in their configured order and
// converts the first raw value it finds.
//
// Quick Start:
//
//	cfg, err := config.NewBuilder().
//	    WithArgs(os.Args[1:]).
//	    WithEnv("MYAPP_").
//	    WithFile("config.toml").
//	    Build()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	port, err := cfg.Int64("server.port")
//
//	// Or the long form, with a default:
//	acc, _ := config.ConvertedFor[int64](cfg.Property("server.port"))
//	acc, _ = acc.WithDefault(int64(8080))
//	port, err := config.Value[int64](acc)
//
// Resolution precedence for a single accessor is fixed: a value found in
// any source beats the typed default, the typed default beats the string
// default, and an unset string default falls back to converting the empty
// string (which the built-in converters reject, yielding
// ErrPropertyNotFound).
//
// Precedence across sources is owned by the Config: sources are probed
// in the order they were added, and the first source that knows the
// property wins. Later sources are never consulted.
//
// Thread Safety:
// Accessors are immutable values and safe for concurrent use without
// synchronization. The Config guards its source list and converter
// registry with a read-write mutex.
package config
