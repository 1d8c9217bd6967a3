// File: telvaren/config/converter.go
package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"reflect"
	"time"

	"github.com/spf13/cast"
)

// Converter turns the raw string form of a property into a typed value.
// A failed conversion is reported through the error return; a nil result
// with a nil error is likewise treated as a failure by the accessor.
type Converter interface {
	Convert(raw string) (any, error)
}

// ConverterFunc adapts a plain function to the Converter interface.
type ConverterFunc func(raw string) (any, error)

func (f ConverterFunc) Convert(raw string) (any, error) {
	return f(raw)
}

// errEmptyValue signals that a converter received the empty string. The
// built-in converters treat empty input as an absent value.
var errEmptyValue = errors.New("empty value")

// Optional is the resolution result of an optional-wrapped accessor.
type Optional struct {
	value   any
	present bool
}

// OptionalOf returns a present Optional holding v.
func OptionalOf(v any) Optional {
	return Optional{value: v, present: true}
}

// EmptyOptional returns an absent Optional.
func EmptyOptional() Optional {
	return Optional{}
}

// Get returns the held value and whether one is present.
func (o Optional) Get() (any, bool) {
	return o.value, o.present
}

// IsPresent reports whether a value is held.
func (o Optional) IsPresent() bool {
	return o.present
}

// OrElse returns the held value, or alt when absent.
func (o Optional) OrElse(alt any) any {
	if o.present {
		return o.value
	}
	return alt
}

// optionalConverter wraps a delegate converter so that missing or
// unconvertible raw values resolve to an absent Optional instead of an
// error. Its concrete type doubles as the "already optional" marker the
// accessor inspects.
type optionalConverter struct {
	delegate Converter
}

func (o optionalConverter) Convert(raw string) (any, error) {
	if raw == "" {
		return EmptyOptional(), nil
	}
	v, err := o.delegate.Convert(raw)
	if err != nil || v == nil {
		return EmptyOptional(), nil
	}
	return OptionalOf(v), nil
}

func isOptionalConverter(c Converter) bool {
	_, ok := c.(optionalConverter)
	return ok
}

// registeredConverter is a registry entry. It carries the name and result
// type the converter was registered under, which is what lets descriptors
// name a converter on the wire and rehydrate typed defaults.
type registeredConverter struct {
	name string
	typ  reflect.Type
	conv Converter
}

func (r *registeredConverter) Convert(raw string) (any, error) {
	return r.conv.Convert(raw)
}

// registerBuiltins installs the converters every Config starts with. The
// scalar conversions delegate to spf13/cast; the network and time types
// mirror the decode support in Scan-style config loaders.
func registerBuiltins(c *Config) {
	c.RegisterConverter("string", reflect.TypeOf(""), ConverterFunc(func(raw string) (any, error) {
		if raw == "" {
			return nil, errEmptyValue
		}
		return raw, nil
	}))
	c.RegisterConverter("bool", reflect.TypeOf(false), ConverterFunc(func(raw string) (any, error) {
		if raw == "" {
			return nil, errEmptyValue
		}
		return cast.ToBoolE(raw)
	}))
	c.RegisterConverter("int", reflect.TypeOf(int(0)), ConverterFunc(func(raw string) (any, error) {
		if raw == "" {
			return nil, errEmptyValue
		}
		return cast.ToIntE(raw)
	}))
	c.RegisterConverter("int64", reflect.TypeOf(int64(0)), ConverterFunc(func(raw string) (any, error) {
		if raw == "" {
			return nil, errEmptyValue
		}
		return cast.ToInt64E(raw)
	}))
	c.RegisterConverter("uint64", reflect.TypeOf(uint64(0)), ConverterFunc(func(raw string) (any, error) {
		if raw == "" {
			return nil, errEmptyValue
		}
		return cast.ToUint64E(raw)
	}))
	c.RegisterConverter("float64", reflect.TypeOf(float64(0)), ConverterFunc(func(raw string) (any, error) {
		if raw == "" {
			return nil, errEmptyValue
		}
		return cast.ToFloat64E(raw)
	}))
	c.RegisterConverter("duration", reflect.TypeOf(time.Duration(0)), ConverterFunc(func(raw string) (any, error) {
		if raw == "" {
			return nil, errEmptyValue
		}
		return cast.ToDurationE(raw)
	}))
	c.RegisterConverter("time", reflect.TypeOf(time.Time{}), ConverterFunc(func(raw string) (any, error) {
		if raw == "" {
			return nil, errEmptyValue
		}
		return cast.ToTimeE(raw)
	}))
	c.RegisterConverter("ip", reflect.TypeOf(net.IP{}), ConverterFunc(func(raw string) (any, error) {
		if raw == "" {
			return nil, errEmptyValue
		}
		if len(raw) > 45 { // Max IPv6 length
			return nil, fmt.Errorf("invalid IP length: %d", len(raw))
		}
		ip := net.ParseIP(raw)
		if ip == nil {
			return nil, fmt.Errorf("invalid IP address: %s", raw)
		}
		return ip, nil
	}))
	c.RegisterConverter("url", reflect.TypeOf((*url.URL)(nil)), ConverterFunc(func(raw string) (any, error) {
		if raw == "" {
			return nil, errEmptyValue
		}
		if len(raw) > 2048 {
			return nil, fmt.Errorf("URL too long: %d bytes", len(raw))
		}
		u, err := url.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid URL: %w", err)
		}
		return u, nil
	}))
}
