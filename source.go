// File: telvaren/config/source.go
package config

import (
	"fmt"
	"os"
	"strings"
)

// Source is an ordered provider of raw string values for property names.
// Priority between sources is owned by the Config they are added to, not
// by the source itself. Implementations must be safe for concurrent
// Lookup calls.
type Source interface {
	// Name identifies the source for logs and debugging.
	Name() string

	// Lookup returns the raw value for a property and whether the source
	// knows it. An empty string with ok true is a found value.
	Lookup(property string) (string, bool)
}

// MapSource serves properties from an in-memory map.
type MapSource struct {
	name   string
	values map[string]string
}

// NewMapSource creates a MapSource over a copy of values.
func NewMapSource(name string, values map[string]string) *MapSource {
	copied := make(map[string]string, len(values))
	for k, v := range values {
		copied[k] = v
	}
	return &MapSource{name: name, values: copied}
}

func (s *MapSource) Name() string {
	return s.name
}

func (s *MapSource) Lookup(property string) (string, bool) {
	v, ok := s.values[property]
	return v, ok
}

// TransformFunc converts a property name to an environment variable name.
type TransformFunc func(property string) string

// EnvSource serves properties from environment variables. By default the
// property name is transformed by replacing dots with underscores,
// uppercasing, and prepending the prefix: with prefix "MYAPP_",
// "server.port" reads MYAPP_SERVER_PORT.
type EnvSource struct {
	transform TransformFunc
}

// NewEnvSource creates an EnvSource with the default transform and the
// given prefix.
func NewEnvSource(prefix string) *EnvSource {
	return &EnvSource{transform: defaultEnvTransform(prefix)}
}

// NewEnvSourceTransform creates an EnvSource with a custom transform.
func NewEnvSourceTransform(transform TransformFunc) *EnvSource {
	if transform == nil {
		transform = defaultEnvTransform("")
	}
	return &EnvSource{transform: transform}
}

func (s *EnvSource) Name() string {
	return "env"
}

func (s *EnvSource) Lookup(property string) (string, bool) {
	return os.LookupEnv(s.transform(property))
}

// defaultEnvTransform creates the default environment variable transformer
func defaultEnvTransform(prefix string) TransformFunc {
	return func(property string) string {
		env := strings.ReplaceAll(property, ".", "_")
		env = strings.ToUpper(env)
		if prefix != "" {
			env = prefix + env
		}
		return env
	}
}

// ArgsSource serves properties from command-line arguments, parsed once at
// construction. Values stay raw strings; conversion is the accessor's job.
type ArgsSource struct {
	values map[string]string
}

// NewArgsSource parses args in the formats "--key=value", "--key value"
// and "--booleanflag" (which yields "true"). Non-flag arguments are
// skipped. Keys are dot-separated property paths; an invalid path segment
// is an error.
func NewArgsSource(args []string) (*ArgsSource, error) {
	values, err := parseArgs(args)
	if err != nil {
		return nil, err
	}
	return &ArgsSource{values: values}, nil
}

func (s *ArgsSource) Name() string {
	return "cli"
}

func (s *ArgsSource) Lookup(property string) (string, bool) {
	v, ok := s.values[property]
	return v, ok
}

// parseArgs processes command-line arguments into property/value pairs.
func parseArgs(args []string) (map[string]string, error) {
	result := make(map[string]string)
	i := 0
	for i < len(args) {
		arg := args[i]
		if !strings.HasPrefix(arg, "--") {
			// Skip non-flag arguments
			i++
			continue
		}

		argContent := strings.TrimPrefix(arg, "--")
		if argContent == "" {
			// Skip "--" argument if used as a separator
			i++
			continue
		}

		var keyPath string
		var valueStr string

		// Check for "--key=value" format
		if strings.Contains(argContent, "=") {
			parts := strings.SplitN(argContent, "=", 2)
			keyPath = parts[0]
			valueStr = parts[1]
			i++ // Consume only this argument
		} else {
			// Handle "--key value" or "--booleanflag"
			keyPath = argContent
			if i+1 >= len(args) || strings.HasPrefix(args[i+1], "--") {
				// Assume boolean flag is true if no value follows
				valueStr = "true"
				i++ // Consume only the flag argument
			} else {
				valueStr = args[i+1]
				i += 2 // Consume flag and value arguments
			}
		}

		if keyPath == "" {
			// Skip invalid flags like --=value
			continue
		}

		// Validate keyPath segments
		segments := strings.Split(keyPath, ".")
		for _, segment := range segments {
			if !isValidKeySegment(segment) {
				return nil, fmt.Errorf("invalid command-line key segment %q in path %q", segment, keyPath)
			}
		}

		result[keyPath] = valueStr
	}

	return result, nil
}

// isValidKeySegment checks if a single path segment is a valid bare key part.
func isValidKeySegment(s string) bool {
	if len(s) == 0 {
		return false
	}
	for _, r := range s {
		isLetter := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		isDigit := r >= '0' && r <= '9'
		isUnderscore := r == '_'
		isDash := r == '-'

		if !(isLetter || isDigit || isUnderscore || isDash) {
			return false
		}
	}
	return true
}
