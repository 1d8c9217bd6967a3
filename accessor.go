// File: telvaren/config/accessor.go
package config

import (
	"fmt"
	"reflect"
)

// Accessor resolves a single named property against the ordered sources of
// its Config. An accessor is an immutable value: every derivation method
// returns a fresh instance and leaves the receiver untouched, so accessors
// may be shared freely across goroutines.
//
// A freshly minted accessor (from Config.Property) carries no converter and
// only supports ForName, ConvertedWith, ConvertedForType and
// WithStringDefault; everything else reports ErrNotAssociated.
//
// At most one of the two default slots is set at a time: attaching a typed
// default clears the string default and vice versa.
type Accessor struct {
	name          string
	cfg           *Config
	conv          Converter
	stringDefault *string
	typedDefault  any
}

// Name returns the property name this accessor resolves.
func (a *Accessor) Name() string {
	return a.name
}

// Config returns the configuration handle the accessor reads from.
func (a *Accessor) Config() *Config {
	return a.cfg
}

// ForName returns an accessor for a different property name, sharing the
// converter and defaults of the receiver.
func (a *Accessor) ForName(name string) *Accessor {
	return &Accessor{
		name:          name,
		cfg:           a.cfg,
		conv:          a.conv,
		stringDefault: a.stringDefault,
		typedDefault:  a.typedDefault,
	}
}

// ConvertedWith returns an accessor that converts raw values with conv. Any
// string default carries over and is re-interpreted under the new converter
// at resolution time; a typed default does not carry over and must not be
// present, since its type is no longer guaranteed to match.
func (a *Accessor) ConvertedWith(conv Converter) (*Accessor, error) {
	if conv == nil {
		return nil, ErrNilConverter
	}
	if a.typedDefault != nil {
		return nil, ErrTypedDefaultSet
	}
	return &Accessor{
		name:          a.name,
		cfg:           a.cfg,
		conv:          conv,
		stringDefault: a.stringDefault,
	}, nil
}

// ConvertedForType looks up the converter registered for t on the Config and
// delegates to ConvertedWith.
func (a *Accessor) ConvertedForType(t reflect.Type) (*Accessor, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: nil type", ErrNoConverter)
	}
	conv, ok := a.cfg.ConverterForType(t)
	if !ok {
		return nil, fmt.Errorf("%w for type %s", ErrNoConverter, t)
	}
	return a.ConvertedWith(conv)
}

// ConvertedFor is the generic form of Accessor.ConvertedForType.
func ConvertedFor[T any](a *Accessor) (*Accessor, error) {
	return a.ConvertedForType(reflect.TypeOf((*T)(nil)).Elem())
}

// WithDefault returns an accessor that falls back to the given
// already-converted value when no source yields one. The value is used
// verbatim at resolution time, never re-converted. It must not be nil, and
// the accessor must already carry a non-optional converter.
func (a *Accessor) WithDefault(value any) (*Accessor, error) {
	if a.conv == nil {
		return nil, ErrNotAssociated
	}
	if isOptionalConverter(a.conv) {
		return nil, ErrOptionalDefault
	}
	if value == nil {
		return nil, ErrNilDefault
	}
	return &Accessor{
		name:         a.name,
		cfg:          a.cfg,
		conv:         a.conv,
		typedDefault: value,
	}, nil
}

// WithStringDefault returns an accessor that falls back to converting the
// given raw string when no source yields a value. It is valid on an
// accessor without a converter; the string is simply stored and converted
// lazily, so defaults and converters may be attached in either order.
func (a *Accessor) WithStringDefault(value string) *Accessor {
	return &Accessor{
		name:          a.name,
		cfg:           a.cfg,
		conv:          a.conv,
		stringDefault: &value,
	}
}

// WithoutDefault returns an accessor with both default slots cleared.
func (a *Accessor) WithoutDefault() *Accessor {
	return &Accessor{
		name: a.name,
		cfg:  a.cfg,
		conv: a.conv,
	}
}

// Optional returns an accessor whose resolved values are Optional: present
// when the raw value converts, absent when it is missing or unparseable.
// Whether an accessor is optional is encoded in the kind of its converter,
// so wrapping twice is detected structurally and rejected.
func (a *Accessor) Optional() (*Accessor, error) {
	if a.conv == nil {
		return nil, ErrNotAssociated
	}
	if isOptionalConverter(a.conv) {
		return nil, ErrAlreadyOptional
	}
	return &Accessor{
		name:          a.name,
		cfg:           a.cfg,
		conv:          optionalConverter{delegate: a.conv},
		stringDefault: a.stringDefault,
	}, nil
}

// Value resolves the property. Sources are probed in the Config's order and
// the first one that knows the property wins; its raw value is converted
// and returned, or resolution fails if conversion does. Only when no source
// knows the property do the defaults apply: the typed default verbatim,
// else the string default (empty string when unset) converted.
//
// Resolution is uncached. Every call reflects the current source state.
func (a *Accessor) Value() (any, error) {
	conv := a.conv
	if conv == nil {
		return nil, ErrNotAssociated
	}
	for _, src := range a.cfg.Sources() {
		raw, ok := src.Lookup(a.name)
		if !ok {
			continue
		}
		converted, err := conv.Convert(raw)
		if err != nil {
			return nil, propertyNotFound(a.name, err)
		}
		if converted == nil {
			return nil, propertyNotFound(a.name, nil)
		}
		return converted, nil
	}
	if a.typedDefault != nil {
		return a.typedDefault, nil
	}
	raw := ""
	if a.stringDefault != nil {
		raw = *a.stringDefault
	}
	converted, err := conv.Convert(raw)
	if err != nil {
		return nil, propertyNotFound(a.name, err)
	}
	if converted == nil {
		return nil, propertyNotFound(a.name, nil)
	}
	return converted, nil
}

// Value resolves a and asserts the result to T.
func Value[T any](a *Accessor) (T, error) {
	var zero T
	v, err := a.Value()
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("property %q resolved to %T, want %T", a.name, v, zero)
	}
	return typed, nil
}
