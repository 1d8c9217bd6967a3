// File: telvaren/config/accessor_test.go
package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telvaren/config"
)

// probeSource records which properties were looked up, to observe whether
// resolution consults it at all.
type probeSource struct {
	name    string
	values  map[string]string
	lookups int
}

func (s *probeSource) Name() string { return s.name }

func (s *probeSource) Lookup(property string) (string, bool) {
	s.lookups++
	v, ok := s.values[property]
	return v, ok
}

func newTestConfig(values map[string]string) *config.Config {
	cfg := config.New()
	if values != nil {
		cfg.AddSource(config.NewMapSource("test", values))
	}
	return cfg
}

func TestAccessorDerivation(t *testing.T) {
	t.Run("Rename", func(t *testing.T) {
		cfg := newTestConfig(map[string]string{"a": "1", "b": "2"})

		acc, err := config.ConvertedFor[int64](cfg.Property("a"))
		require.NoError(t, err)

		renamed := acc.ForName("b")
		assert.Equal(t, "b", renamed.Name())

		v, err := config.Value[int64](renamed)
		require.NoError(t, err)
		assert.Equal(t, int64(2), v)

		// Renaming back is equivalent to the original.
		back := renamed.ForName("a")
		assert.Equal(t, acc.Name(), back.Name())
		v, err = config.Value[int64](back)
		require.NoError(t, err)
		assert.Equal(t, int64(1), v)
	})

	t.Run("DerivationNeverMutatesOriginal", func(t *testing.T) {
		cfg := newTestConfig(map[string]string{"a": "5"})

		acc, err := config.ConvertedFor[int64](cfg.Property("a"))
		require.NoError(t, err)

		before, err := acc.Value()
		require.NoError(t, err)

		// Derive in every direction.
		_ = acc.ForName("other")
		_ = acc.WithStringDefault("1")
		_, err = acc.WithDefault(int64(99))
		require.NoError(t, err)
		_, err = acc.Optional()
		require.NoError(t, err)

		after, err := acc.Value()
		require.NoError(t, err)
		assert.Equal(t, before, after)
		assert.Equal(t, "a", acc.Name())
	})

	t.Run("ConvertedWithNil", func(t *testing.T) {
		cfg := newTestConfig(nil)

		_, err := cfg.Property("a").ConvertedWith(nil)
		assert.ErrorIs(t, err, config.ErrNilConverter)
	})

	t.Run("ConvertedWithAfterTypedDefault", func(t *testing.T) {
		cfg := newTestConfig(nil)

		acc, err := config.ConvertedFor[int64](cfg.Property("a"))
		require.NoError(t, err)
		acc, err = acc.WithDefault(int64(99))
		require.NoError(t, err)

		conv, ok := cfg.ConverterNamed("string")
		require.True(t, ok)

		// A typed default blocks re-typing; the old default's type is no
		// longer guaranteed compatible.
		_, err = acc.ConvertedWith(conv)
		assert.ErrorIs(t, err, config.ErrTypedDefaultSet)
	})

	t.Run("ConvertedWithAfterStringDefault", func(t *testing.T) {
		cfg := newTestConfig(nil)

		acc := cfg.Property("a").WithStringDefault("7")

		// A string default is re-interpreted under the new converter and
		// does not block re-typing.
		typed, err := config.ConvertedFor[int64](acc)
		require.NoError(t, err)

		v, err := config.Value[int64](typed)
		require.NoError(t, err)
		assert.Equal(t, int64(7), v)
	})

	t.Run("ConvertedForUnknownType", func(t *testing.T) {
		type custom struct{ X int }
		cfg := newTestConfig(nil)

		_, err := config.ConvertedFor[custom](cfg.Property("a"))
		assert.ErrorIs(t, err, config.ErrNoConverter)
	})

	t.Run("WithDefaultRequiresConverter", func(t *testing.T) {
		cfg := newTestConfig(nil)

		_, err := cfg.Property("a").WithDefault(int64(1))
		assert.ErrorIs(t, err, config.ErrNotAssociated)
	})

	t.Run("WithDefaultRejectsNil", func(t *testing.T) {
		cfg := newTestConfig(nil)

		acc, err := config.ConvertedFor[int64](cfg.Property("a"))
		require.NoError(t, err)

		_, err = acc.WithDefault(nil)
		assert.ErrorIs(t, err, config.ErrNilDefault)
	})

	t.Run("WithDefaultReplacesStringDefault", func(t *testing.T) {
		cfg := newTestConfig(nil)

		acc, err := config.ConvertedFor[int64](cfg.Property("a"))
		require.NoError(t, err)

		acc, err = acc.WithStringDefault("1").WithDefault(int64(99))
		require.NoError(t, err)

		v, err := config.Value[int64](acc)
		require.NoError(t, err)
		assert.Equal(t, int64(99), v)
	})

	t.Run("WithoutDefault", func(t *testing.T) {
		cfg := newTestConfig(nil)

		acc, err := config.ConvertedFor[int64](cfg.Property("a"))
		require.NoError(t, err)
		acc, err = acc.WithDefault(int64(99))
		require.NoError(t, err)

		_, err = acc.WithoutDefault().Value()
		assert.ErrorIs(t, err, config.ErrPropertyNotFound)
	})

	t.Run("ValueRequiresConverter", func(t *testing.T) {
		cfg := newTestConfig(map[string]string{"a": "5"})

		_, err := cfg.Property("a").Value()
		assert.ErrorIs(t, err, config.ErrNotAssociated)
	})
}

func TestResolutionPrecedence(t *testing.T) {
	t.Run("SourceBeatsTypedDefault", func(t *testing.T) {
		cfg := newTestConfig(map[string]string{"a": "5"})

		acc, err := config.ConvertedFor[int64](cfg.Property("a"))
		require.NoError(t, err)
		acc, err = acc.WithDefault(int64(99))
		require.NoError(t, err)

		v, err := config.Value[int64](acc)
		require.NoError(t, err)
		assert.Equal(t, int64(5), v)
	})

	t.Run("SourceBeatsStringDefault", func(t *testing.T) {
		cfg := newTestConfig(map[string]string{"a": "5"})

		acc, err := config.ConvertedFor[int64](cfg.Property("a"))
		require.NoError(t, err)

		v, err := config.Value[int64](acc.WithStringDefault("1"))
		require.NoError(t, err)
		assert.Equal(t, int64(5), v)
	})

	t.Run("TypedDefaultReturnedVerbatim", func(t *testing.T) {
		cfg := newTestConfig(nil)

		acc, err := config.ConvertedFor[int64](cfg.Property("missing"))
		require.NoError(t, err)
		acc, err = acc.WithDefault(int64(99))
		require.NoError(t, err)

		v, err := config.Value[int64](acc)
		require.NoError(t, err)
		assert.Equal(t, int64(99), v)
	})

	t.Run("StringDefaultConverted", func(t *testing.T) {
		cfg := newTestConfig(nil)

		acc, err := config.ConvertedFor[int64](cfg.Property("missing"))
		require.NoError(t, err)

		v, err := config.Value[int64](acc.WithStringDefault("7"))
		require.NoError(t, err)
		assert.Equal(t, int64(7), v)
	})

	t.Run("NoDefaultsConvertsEmptyString", func(t *testing.T) {
		cfg := newTestConfig(nil)

		// The built-in converters reject empty input, so the empty-string
		// fallback fails as not-found.
		acc, err := config.ConvertedFor[int64](cfg.Property("missing"))
		require.NoError(t, err)
		_, err = acc.Value()
		assert.ErrorIs(t, err, config.ErrPropertyNotFound)

		strAcc, err := config.ConvertedFor[string](cfg.Property("missing"))
		require.NoError(t, err)
		_, err = strAcc.Value()
		assert.ErrorIs(t, err, config.ErrPropertyNotFound)
	})

	t.Run("FirstMatchWins", func(t *testing.T) {
		high := &probeSource{name: "high", values: map[string]string{"a": "1"}}
		low := &probeSource{name: "low", values: map[string]string{"a": "2"}}

		cfg := config.New()
		cfg.AddSource(high)
		cfg.AddSource(low)

		acc, err := config.ConvertedFor[int64](cfg.Property("a"))
		require.NoError(t, err)

		v, err := config.Value[int64](acc)
		require.NoError(t, err)
		assert.Equal(t, int64(1), v)

		// The lower-priority source was never consulted.
		assert.Equal(t, 1, high.lookups)
		assert.Equal(t, 0, low.lookups)
	})

	t.Run("NoFallthroughOnConversionFailure", func(t *testing.T) {
		cfg := config.New()
		cfg.AddSource(config.NewMapSource("high", map[string]string{"a": "not-a-number"}))
		cfg.AddSource(config.NewMapSource("low", map[string]string{"a": "2"}))

		acc, err := config.ConvertedFor[int64](cfg.Property("a"))
		require.NoError(t, err)

		// The first source's value failed to convert; later sources and
		// defaults are not consulted.
		acc, err = acc.WithDefault(int64(99))
		require.NoError(t, err)
		_, err = acc.Value()
		assert.ErrorIs(t, err, config.ErrPropertyNotFound)
	})

	t.Run("UncachedResolution", func(t *testing.T) {
		values := &probeSource{name: "live", values: map[string]string{"a": "1"}}
		cfg := config.New()
		cfg.AddSource(values)

		acc, err := config.ConvertedFor[int64](cfg.Property("a"))
		require.NoError(t, err)

		v, err := config.Value[int64](acc)
		require.NoError(t, err)
		assert.Equal(t, int64(1), v)

		values.values["a"] = "2"

		v, err = config.Value[int64](acc)
		require.NoError(t, err)
		assert.Equal(t, int64(2), v)
	})
}

func TestOptionalAccessor(t *testing.T) {
	t.Run("PresentValue", func(t *testing.T) {
		cfg := newTestConfig(map[string]string{"a": "5"})

		acc, err := config.ConvertedFor[int64](cfg.Property("a"))
		require.NoError(t, err)
		acc, err = acc.Optional()
		require.NoError(t, err)

		opt, err := config.Value[config.Optional](acc)
		require.NoError(t, err)
		v, present := opt.Get()
		assert.True(t, present)
		assert.Equal(t, int64(5), v)
	})

	t.Run("AbsentValue", func(t *testing.T) {
		cfg := newTestConfig(nil)

		acc, err := config.ConvertedFor[int64](cfg.Property("missing"))
		require.NoError(t, err)
		acc, err = acc.Optional()
		require.NoError(t, err)

		opt, err := config.Value[config.Optional](acc)
		require.NoError(t, err)
		assert.False(t, opt.IsPresent())
		assert.Equal(t, int64(0), opt.OrElse(int64(0)))
	})

	t.Run("UnparseableValueIsAbsent", func(t *testing.T) {
		cfg := newTestConfig(map[string]string{"a": "not-a-number"})

		acc, err := config.ConvertedFor[int64](cfg.Property("a"))
		require.NoError(t, err)
		acc, err = acc.Optional()
		require.NoError(t, err)

		opt, err := config.Value[config.Optional](acc)
		require.NoError(t, err)
		assert.False(t, opt.IsPresent())
	})

	t.Run("RequiresConverter", func(t *testing.T) {
		cfg := newTestConfig(nil)

		_, err := cfg.Property("a").Optional()
		assert.ErrorIs(t, err, config.ErrNotAssociated)
	})

	t.Run("DoubleWrapRejected", func(t *testing.T) {
		cfg := newTestConfig(nil)

		acc, err := config.ConvertedFor[int64](cfg.Property("a"))
		require.NoError(t, err)
		acc, err = acc.Optional()
		require.NoError(t, err)

		_, err = acc.Optional()
		assert.ErrorIs(t, err, config.ErrAlreadyOptional)
	})

	t.Run("DefaultAfterOptionalRejected", func(t *testing.T) {
		cfg := newTestConfig(nil)

		acc, err := config.ConvertedFor[int64](cfg.Property("a"))
		require.NoError(t, err)
		acc, err = acc.Optional()
		require.NoError(t, err)

		_, err = acc.WithDefault(int64(1))
		assert.ErrorIs(t, err, config.ErrOptionalDefault)
	})

	t.Run("StringDefaultCarriesIntoOptional", func(t *testing.T) {
		cfg := newTestConfig(nil)

		acc, err := config.ConvertedFor[int64](cfg.Property("missing"))
		require.NoError(t, err)
		acc, err = acc.WithStringDefault("7").Optional()
		require.NoError(t, err)

		opt, err := config.Value[config.Optional](acc)
		require.NoError(t, err)
		v, present := opt.Get()
		assert.True(t, present)
		assert.Equal(t, int64(7), v)
	})
}

func TestAccessorConcurrentUse(t *testing.T) {
	cfg := newTestConfig(map[string]string{"a": "5"})

	acc, err := config.ConvertedFor[int64](cfg.Property("a"))
	require.NoError(t, err)

	done := make(chan error, 16)
	for i := 0; i < 16; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				if _, err := config.Value[int64](acc); err != nil {
					done <- err
					return
				}
			}
			done <- nil
		}()
	}
	for i := 0; i < 16; i++ {
		assert.NoError(t, <-done)
	}
}
