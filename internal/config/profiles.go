package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"eolgames/internal"
	"eolgames/internal/util"
)

//go:embed profiles.yaml
var defaultProfiles []byte

type FallbackRule struct {
	Required  []internal.Field
	Forbidden []internal.Field
}

// Profile is the per-console view of the configuration handed to the
// table locator and column mapper. Values returned by ProfileSet.For are
// private copies; nothing mutates them afterwards.
type Profile struct {
	Console              string
	SpecialName          string
	TableIDs             map[internal.Category][]string
	Fallback             map[internal.Category]FallbackRule
	Synonyms             map[internal.Field][]string
	Placeholders         []string
	MinDataRows          int
	HeaderMatchThreshold float64
}

func (p Profile) IsPlaceholder(value string) bool {
	v := strings.ToLower(value)
	for _, ph := range p.Placeholders {
		if v == ph {
			return true
		}
	}
	return false
}

type fallbackSpec struct {
	Required  []string `yaml:"required"`
	Forbidden []string `yaml:"forbidden"`
}

type profileSpec struct {
	SpecialName  string                  `yaml:"special_name"`
	Tables       map[string][]string     `yaml:"tables"`
	Fallback     map[string]fallbackSpec `yaml:"fallback"`
	Synonyms     map[string][]string     `yaml:"synonyms"`
	Placeholders []string                `yaml:"placeholders"`
}

type profilesFile struct {
	Defaults profileSpec            `yaml:"defaults"`
	Consoles map[string]profileSpec `yaml:"consoles"`
}

type ProfileSet struct {
	defaults             profileSpec
	consoles             map[string]profileSpec
	minDataRows          int
	headerMatchThreshold float64
}

// LoadProfiles reads the embedded defaults and, when path is set, merges
// the file at path on top of them.
func LoadProfiles(cfg Config, path string) (ProfileSet, error) {
	base, err := parseProfiles(defaultProfiles)
	if err != nil {
		return ProfileSet{}, fmt.Errorf("embedded profiles: %w", err)
	}
	if strings.TrimSpace(path) != "" {
		blob, err := os.ReadFile(path)
		if err != nil {
			return ProfileSet{}, err
		}
		override, err := parseProfiles(blob)
		if err != nil {
			return ProfileSet{}, fmt.Errorf("%s: %w", path, err)
		}
		base = mergeProfiles(base, override)
	}

	return ProfileSet{
		defaults:             base.Defaults,
		consoles:             base.Consoles,
		minDataRows:          cfg.MinTableRows,
		headerMatchThreshold: cfg.HeaderMatchThreshold,
	}, nil
}

func parseProfiles(blob []byte) (profilesFile, error) {
	var f profilesFile
	if err := yaml.Unmarshal(blob, &f); err != nil {
		return profilesFile{}, err
	}
	for key := range f.Defaults.Tables {
		if _, err := internal.ParseCategory(key); err != nil {
			return profilesFile{}, fmt.Errorf("defaults.tables: %w", err)
		}
	}
	for key := range f.Defaults.Fallback {
		if _, err := internal.ParseCategory(key); err != nil {
			return profilesFile{}, fmt.Errorf("defaults.fallback: %w", err)
		}
	}
	for key := range f.Defaults.Synonyms {
		if !internal.IsCanonicalField(internal.Field(key)) {
			return profilesFile{}, fmt.Errorf("defaults.synonyms: unknown field %q", key)
		}
	}
	for name, spec := range f.Consoles {
		for key := range spec.Tables {
			if _, err := internal.ParseCategory(key); err != nil {
				return profilesFile{}, fmt.Errorf("consoles.%s.tables: %w", name, err)
			}
		}
		for key := range spec.Synonyms {
			if !internal.IsCanonicalField(internal.Field(key)) {
				return profilesFile{}, fmt.Errorf("consoles.%s.synonyms: unknown field %q", name, key)
			}
		}
	}
	return f, nil
}

func mergeProfiles(base, override profilesFile) profilesFile {
	out := profilesFile{
		Defaults: mergeSpec(base.Defaults, override.Defaults),
		Consoles: map[string]profileSpec{},
	}
	for name, spec := range base.Consoles {
		out.Consoles[name] = spec
	}
	for name, spec := range override.Consoles {
		if existing, ok := out.Consoles[name]; ok {
			out.Consoles[name] = mergeSpec(existing, spec)
			continue
		}
		out.Consoles[name] = spec
	}
	return out
}

// mergeSpec layers b over a: tables and fallback rules replace per
// category, synonyms and placeholders accumulate.
func mergeSpec(a, b profileSpec) profileSpec {
	out := profileSpec{
		SpecialName:  a.SpecialName,
		Tables:       map[string][]string{},
		Fallback:     map[string]fallbackSpec{},
		Synonyms:     map[string][]string{},
		Placeholders: append(append([]string{}, a.Placeholders...), b.Placeholders...),
	}
	if b.SpecialName != "" {
		out.SpecialName = b.SpecialName
	}
	for k, v := range a.Tables {
		out.Tables[k] = v
	}
	for k, v := range b.Tables {
		out.Tables[k] = v
	}
	for k, v := range a.Fallback {
		out.Fallback[k] = v
	}
	for k, v := range b.Fallback {
		out.Fallback[k] = v
	}
	for k, v := range a.Synonyms {
		out.Synonyms[k] = append(out.Synonyms[k], v...)
	}
	for k, v := range b.Synonyms {
		out.Synonyms[k] = append(out.Synonyms[k], v...)
	}
	return out
}

// For returns the profile for console. Unknown consoles get the defaults.
func (s ProfileSet) For(console string) Profile {
	spec := s.defaults
	if c, ok := s.consoles[console]; ok {
		spec = mergeSpec(s.defaults, c)
	}

	p := Profile{
		Console:              console,
		SpecialName:          spec.SpecialName,
		TableIDs:             map[internal.Category][]string{},
		Fallback:             map[internal.Category]FallbackRule{},
		Synonyms:             map[internal.Field][]string{},
		MinDataRows:          s.minDataRows,
		HeaderMatchThreshold: s.headerMatchThreshold,
	}
	if p.SpecialName == "" {
		p.SpecialName = string(internal.CategorySpecial)
	}
	for k, ids := range spec.Tables {
		p.TableIDs[internal.Category(k)] = append([]string{}, ids...)
	}
	for k, rule := range spec.Fallback {
		p.Fallback[internal.Category(k)] = FallbackRule{
			Required:  toFields(rule.Required),
			Forbidden: toFields(rule.Forbidden),
		}
	}
	for k, words := range spec.Synonyms {
		seen := map[string]struct{}{}
		for _, w := range words {
			key := util.NormalizeHeader(w)
			if key == "" {
				continue
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			p.Synonyms[internal.Field(k)] = append(p.Synonyms[internal.Field(k)], key)
		}
	}
	for _, ph := range spec.Placeholders {
		p.Placeholders = append(p.Placeholders, strings.ToLower(util.NormalizeText(ph)))
	}
	return p
}

func toFields(names []string) []internal.Field {
	out := make([]internal.Field, 0, len(names))
	for _, n := range names {
		out = append(out, internal.Field(n))
	}
	return out
}
