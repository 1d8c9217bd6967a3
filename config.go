// File: telvaren/config/config.go
package config

import (
	"fmt"
	"reflect"
	"sync"
	"time"
)

// Config is the handle accessors resolve against. It owns the ordered
// source list (first source probed first, i.e. highest priority) and the
// converter registry, and it mints fresh accessors. The handle itself is
// mutable behind a read-write mutex; the accessors it hands out are not.
type Config struct {
	mutex   sync.RWMutex
	sources []Source
	byType  map[reflect.Type]*registeredConverter
	byName  map[string]*registeredConverter
}

// New creates a Config with no sources and the built-in converters
// registered (string, bool, int, int64, uint64, float64, duration, time,
// ip, url).
func New() *Config {
	c := &Config{
		byType: make(map[reflect.Type]*registeredConverter),
		byName: make(map[string]*registeredConverter),
	}
	registerBuiltins(c)
	return c
}

// Property returns a fresh accessor for the given property name. The
// accessor carries no converter yet; attach one with ConvertedWith or
// ConvertedForType before resolving.
func (c *Config) Property(name string) *Accessor {
	return &Accessor{name: name, cfg: c}
}

// AddSource appends a source with lower priority than all sources added
// before it.
func (c *Config) AddSource(s Source) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.sources = append(c.sources, s)
}

// Sources returns the sources in probe order, highest priority first.
func (c *Config) Sources() []Source {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	out := make([]Source, len(c.sources))
	copy(out, c.sources)
	return out
}

// RegisterConverter registers conv under the given name and result type,
// replacing any previous registration for either key. Registered
// converters are what ConvertedForType resolves and what descriptors
// reference by name.
func (c *Config) RegisterConverter(name string, typ reflect.Type, conv Converter) error {
	if name == "" {
		return fmt.Errorf("converter name cannot be empty")
	}
	if typ == nil {
		return fmt.Errorf("converter %q: result type cannot be nil", name)
	}
	if conv == nil {
		return fmt.Errorf("converter %q: %w", name, ErrNilConverter)
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	entry := &registeredConverter{name: name, typ: typ, conv: conv}
	c.byType[typ] = entry
	c.byName[name] = entry
	return nil
}

// ConverterForType returns the converter registered for the given result
// type.
func (c *Config) ConverterForType(typ reflect.Type) (Converter, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entry, ok := c.byType[typ]
	if !ok {
		return nil, false
	}
	return entry, true
}

// ConverterNamed returns the converter registered under the given name.
func (c *Config) ConverterNamed(name string) (Converter, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entry, ok := c.byName[name]
	if !ok {
		return nil, false
	}
	return entry, true
}

// String resolves the named property as a string.
func (c *Config) String(name string) (string, error) {
	a, err := ConvertedFor[string](c.Property(name))
	if err != nil {
		return "", err
	}
	return Value[string](a)
}

// Int64 resolves the named property as an int64.
func (c *Config) Int64(name string) (int64, error) {
	a, err := ConvertedFor[int64](c.Property(name))
	if err != nil {
		return 0, err
	}
	return Value[int64](a)
}

// Bool resolves the named property as a bool.
func (c *Config) Bool(name string) (bool, error) {
	a, err := ConvertedFor[bool](c.Property(name))
	if err != nil {
		return false, err
	}
	return Value[bool](a)
}

// Float64 resolves the named property as a float64.
func (c *Config) Float64(name string) (float64, error) {
	a, err := ConvertedFor[float64](c.Property(name))
	if err != nil {
		return 0.0, err
	}
	return Value[float64](a)
}

// Duration resolves the named property as a time.Duration.
func (c *Config) Duration(name string) (time.Duration, error) {
	a, err := ConvertedFor[time.Duration](c.Property(name))
	if err != nil {
		return 0, err
	}
	return Value[time.Duration](a)
}
