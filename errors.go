// File: telvaren/config/errors.go
package config

import (
	"errors"
	"fmt"
)

var (
	// ErrNotAssociated is returned when an accessor without a converter is
	// resolved or asked to perform a typed derivation.
	ErrNotAssociated = errors.New("accessor is not associated with a type or converter")

	// ErrPropertyNotFound is returned when no source yields a value and no
	// usable default is available, including the case where the applicable
	// default fails to convert.
	ErrPropertyNotFound = errors.New("property not found")

	// ErrAlreadyOptional is returned by Optional on an accessor that is
	// already optional-wrapped.
	ErrAlreadyOptional = errors.New("accessor is already optional")

	// ErrOptionalDefault is returned by WithDefault on an optional accessor;
	// absence is already representable there.
	ErrOptionalDefault = errors.New("accessor is optional")

	// ErrTypedDefaultSet is returned by ConvertedWith when a type-specific
	// default is present. The old default cannot be assumed compatible with
	// the new converter's result type.
	ErrTypedDefaultSet = errors.New("already associated with a type-specific default value")

	// ErrNoConverter is returned when the converter registry has no entry
	// for a requested type or name.
	ErrNoConverter = errors.New("no converter is available")

	// ErrNilConverter is returned when nil is passed where a converter is
	// required.
	ErrNilConverter = errors.New("converter must not be nil")

	// ErrNilDefault is returned by WithDefault for a nil value. A nil typed
	// default would be indistinguishable from no default at all, so it is
	// rejected up front.
	ErrNilDefault = errors.New("typed default value must not be nil")

	// ErrConfigNotFound indicates a missing configuration file.
	ErrConfigNotFound = errors.New("configuration file not found")
)

// propertyNotFound builds the resolution failure for a property, keeping the
// conversion error as the cause when there is one.
func propertyNotFound(name string, cause error) error {
	if cause != nil {
		return fmt.Errorf("%w: %q: %w", ErrPropertyNotFound, name, cause)
	}
	return fmt.Errorf("%w: %q", ErrPropertyNotFound, name)
}
