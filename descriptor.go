// File: telvaren/config/descriptor.go
package config

import (
	"fmt"
	"reflect"
	"time"

	"github.com/mitchellh/mapstructure"
)

// Descriptor is the compact, serializable surrogate of an Accessor. It
// captures the property name, the registry name of the converter, the
// optional wrapping, and whichever default is set. It never captures a
// resolved value or the source list; those are reached again through the
// Config handle given to Rehydrate.
//
// The field tags fix the on-wire shape; persisted descriptors survive
// version upgrades as long as the shape and the converter names do.
type Descriptor struct {
	Property      string  `json:"property" toml:"property" yaml:"property"`
	Converter     string  `json:"converter" toml:"converter" yaml:"converter"`
	Optional      bool    `json:"optional,omitempty" toml:"optional,omitempty" yaml:"optional,omitempty"`
	StringDefault *string `json:"string_default,omitempty" toml:"string_default,omitempty" yaml:"string_default,omitempty"`
	TypedDefault  any     `json:"typed_default,omitempty" toml:"typed_default,omitempty" yaml:"typed_default,omitempty"`
}

// Describe captures the accessor as a Descriptor. The accessor's converter
// must come from the Config's registry (ConvertedForType or rehydration);
// an ad-hoc converter has no name to reference and cannot be described.
func (a *Accessor) Describe() (Descriptor, error) {
	conv := a.conv
	if conv == nil {
		return Descriptor{}, ErrNotAssociated
	}

	optional := false
	if oc, ok := conv.(optionalConverter); ok {
		optional = true
		conv = oc.delegate
	}

	entry, ok := conv.(*registeredConverter)
	if !ok {
		return Descriptor{}, fmt.Errorf("cannot describe accessor for %q: converter is not registered", a.name)
	}

	return Descriptor{
		Property:      a.name,
		Converter:     entry.name,
		Optional:      optional,
		StringDefault: a.stringDefault,
		TypedDefault:  a.typedDefault,
	}, nil
}

// Rehydrate reconstructs an accessor from a descriptor through the Config's
// own accessor factory: fresh accessor, converter reattached by name,
// optional re-wrapped, default reattached. The result behaves exactly like
// the accessor that was described, against whatever the current source
// state is.
//
// Descriptors are untrusted data: one carrying both a string and a typed
// default is rejected even though Describe can never produce it.
func Rehydrate(cfg *Config, d Descriptor) (*Accessor, error) {
	if cfg == nil {
		return nil, fmt.Errorf("cannot rehydrate %q: nil config", d.Property)
	}
	if d.StringDefault != nil && d.TypedDefault != nil {
		return nil, fmt.Errorf("descriptor for %q carries both a string and a typed default value", d.Property)
	}

	conv, ok := cfg.ConverterNamed(d.Converter)
	if !ok {
		return nil, fmt.Errorf("%w under name %q", ErrNoConverter, d.Converter)
	}

	a, err := cfg.Property(d.Property).ConvertedWith(conv)
	if err != nil {
		return nil, err
	}

	if d.Optional {
		a, err = a.Optional()
		if err != nil {
			return nil, err
		}
	}

	switch {
	case d.StringDefault != nil:
		a = a.WithStringDefault(*d.StringDefault)
	case d.TypedDefault != nil:
		value, err := decodeTypedDefault(conv.(*registeredConverter), d.TypedDefault)
		if err != nil {
			return nil, fmt.Errorf("descriptor for %q: %w", d.Property, err)
		}
		a, err = a.WithDefault(value)
		if err != nil {
			return nil, err
		}
	}

	return a, nil
}

// decodeTypedDefault coerces a deserialized typed default back to the
// converter's registered result type. Wire formats erase Go types (JSON
// turns every number into float64), so the raw descriptor value is decoded
// with mapstructure before it is trusted as a typed default.
func decodeTypedDefault(entry *registeredConverter, raw any) (any, error) {
	target := reflect.New(entry.typ)

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target.Interface(),
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToTimeHookFunc(time.RFC3339),
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create mapstructure decoder: %w", err)
	}

	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("typed default is not a %s: %w", entry.typ, err)
	}

	return target.Elem().Interface(), nil
}
