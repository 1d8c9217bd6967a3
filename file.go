// File: telvaren/config/file.go
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// FileSource serves properties from a configuration file. The file is read
// and flattened to dot-notation paths once at construction; nested tables
// become "parent.child" properties. Leaf values are kept in their raw
// string form, so a file value passes through the same converter as any
// other source's value.
type FileSource struct {
	path   string
	values map[string]string
}

// NewFileSource reads the file at path, detecting the format from the
// extension and falling back to content sniffing. TOML, JSON and YAML are
// supported. A missing file yields ErrConfigNotFound.
func NewFileSource(path string) (*FileSource, error) {
	return NewFileSourceFormat(path, "")
}

// NewFileSourceFormat is NewFileSource with an explicit format hint
// ("toml", "json" or "yaml"); an empty hint enables detection.
func NewFileSourceFormat(path, format string) (*FileSource, error) {
	fileData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrConfigNotFound
		}
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	if format == "" || format == "auto" {
		format = detectFileFormat(path)
		if format == "" {
			format = detectFormatFromContent(fileData)
			if format == "" {
				return nil, fmt.Errorf("unable to determine config format for file '%s'", path)
			}
		}
	}

	fileConfig := make(map[string]any)
	switch format {
	case "toml":
		if err := toml.Unmarshal(fileData, &fileConfig); err != nil {
			return nil, fmt.Errorf("failed to parse TOML config file '%s': %w", path, err)
		}
	case "json":
		decoder := json.NewDecoder(bytes.NewReader(fileData))
		decoder.UseNumber() // Preserve number precision
		if err := decoder.Decode(&fileConfig); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config file '%s': %w", path, err)
		}
	case "yaml":
		if err := yaml.Unmarshal(fileData, &fileConfig); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config file '%s': %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q for file '%s'", format, path)
	}

	values := make(map[string]string)
	for property, value := range flattenMap(fileConfig, "") {
		values[property] = stringify(value)
	}

	return &FileSource{path: path, values: values}, nil
}

func (s *FileSource) Name() string {
	return "file"
}

// Path returns the file the source was loaded from.
func (s *FileSource) Path() string {
	return s.path
}

func (s *FileSource) Lookup(property string) (string, bool) {
	v, ok := s.values[property]
	return v, ok
}

// flattenMap converts a nested map[string]any to a flat map[string]any with
// dot-notation paths.
func flattenMap(nested map[string]any, prefix string) map[string]any {
	flat := make(map[string]any)

	for key, value := range nested {
		newPath := key
		if prefix != "" {
			newPath = prefix + "." + key
		}

		if nestedMap, isMap := value.(map[string]any); isMap {
			for subPath, subValue := range flattenMap(nestedMap, newPath) {
				flat[subPath] = subValue
			}
		} else {
			flat[newPath] = value
		}
	}

	return flat
}

// stringify renders a parsed leaf value back to its raw string form.
func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// detectFileFormat determines format from file extension
func detectFileFormat(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".toml", ".tml":
		return "toml"
	case ".json":
		return "json"
	case ".yaml", ".yml":
		return "yaml"
	default:
		return ""
	}
}

// detectFormatFromContent attempts to detect format by parsing
func detectFormatFromContent(data []byte) string {
	// Try JSON first (strict format)
	var jsonTest any
	if err := json.Unmarshal(data, &jsonTest); err == nil {
		return "json"
	}

	// Try TOML before YAML: YAML accepts nearly anything
	var tomlTest any
	if err := toml.Unmarshal(data, &tomlTest); err == nil {
		return "toml"
	}

	var yamlTest any
	if err := yaml.Unmarshal(data, &yamlTest); err == nil {
		return "yaml"
	}

	return ""
}
