// Package options reads core option values from files, so a core can be
// configured outside a libretro frontend and option files can be checked
// against the options a core declares.
package options

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	emucore "github.com/user-none/v32retro/api"
)

// Values maps option keys to their selected values.
type Values map[string]string

// ErrUnsupportedFormat is returned for unrecognized option file extensions
var ErrUnsupportedFormat = errors.New("unsupported options file format")

// Load reads an options file based on its extension.
// Supports: .cfg/.opt/.toml (RetroArch `key = "value"` lines are valid TOML),
// .yaml/.yml, .json
func Load(path string) (Values, error) {
	if path == "" {
		return nil, fmt.Errorf("empty options path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read options: %w", err)
	}

	raw := map[string]any{}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".cfg", ".opt", ".toml":
		if err := toml.Unmarshal(b, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(b, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}

	values := make(Values, len(raw))
	for k, v := range raw {
		switch tv := v.(type) {
		case string:
			values[k] = tv
		case bool:
			// YAML turns unquoted true/false into booleans
			values[k] = fmt.Sprintf("%t", tv)
		case nil:
			values[k] = ""
		default:
			// Nested tables belong to other tools sharing the file
			if _, nested := v.(map[string]any); nested {
				continue
			}
			values[k] = fmt.Sprint(tv)
		}
	}
	return values, nil
}

// Problem describes an option value that does not match its declaration.
type Problem struct {
	Key     string
	Value   string
	Allowed []string
}

func (p Problem) String() string {
	return fmt.Sprintf("%s = %q (allowed: %s)", p.Key, p.Value, strings.Join(p.Allowed, "|"))
}

// Validate reports values of declared options that are not among the
// declared choices. Keys the core does not declare are ignored since option
// files are usually shared between cores.
func Validate(values Values, declared []emucore.CoreOption) []Problem {
	var problems []Problem
	for _, opt := range declared {
		v, ok := values[opt.Key]
		if !ok {
			continue
		}
		allowed := Allowed(opt)
		if !contains(allowed, v) {
			problems = append(problems, Problem{Key: opt.Key, Value: v, Allowed: allowed})
		}
	}
	sort.Slice(problems, func(i, j int) bool { return problems[i].Key < problems[j].Key })
	return problems
}

// Effective returns the value the core will use for opt: the file value
// when valid, the declared default otherwise.
func Effective(values Values, opt emucore.CoreOption) string {
	if v, ok := values[opt.Key]; ok && contains(Allowed(opt), v) {
		return v
	}
	return opt.Default
}

// Allowed lists the values a declared option accepts.
func Allowed(opt emucore.CoreOption) []string {
	if opt.Type == emucore.CoreOptionBool {
		return []string{"true", "false"}
	}
	return opt.Values
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
