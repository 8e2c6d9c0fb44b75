package config

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Overrides holds KEY=VALUE pairs read from the backend override file. A key
// mapped to "" is present and must be distinguished from an absent key.
type Overrides map[string]string

// Lookup reports the value for key and whether the file set it at all.
func (o Overrides) Lookup(key string) (string, bool) {
	v, ok := o[key]
	return v, ok
}

// LoadOverrides reads the override file at path. The file is optional: on any
// read error an empty, non-nil map is returned together with the error so the
// caller can log it as a warning.
func LoadOverrides(path string) (Overrides, error) {
	f, err := os.Open(path)
	if err != nil {
		return Overrides{}, fmt.Errorf("could not read %s: %w", path, err)
	}
	defer f.Close()

	o, err := ParseOverrides(f)
	if err != nil {
		return Overrides{}, fmt.Errorf("could not read %s: %w", path, err)
	}
	return o, nil
}

// ParseOverrides parses KEY=VALUE lines. Blank lines, lines starting with '#'
// and lines without '=' are ignored. Keys and values are trimmed, empty keys
// are dropped, the last occurrence of a key wins, and a value loses one
// matching pair of surrounding quotes. Lines may be of any length.
func ParseOverrides(r io.Reader) (Overrides, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	o := Overrides{}
	for _, raw := range strings.Split(string(data), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		o[key] = unquote(strings.TrimSpace(value))
	}
	return o, nil
}

func unquote(v string) string {
	if len(v) >= 2 {
		first, last := v[0], v[len(v)-1]
		if first == last && (first == '"' || first == '\'') {
			return v[1 : len(v)-1]
		}
	}
	return v
}
