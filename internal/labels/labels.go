// Package labels holds the versioned dictionary that maps Inputs-sheet labels
// to canonical field names. Lookups are exact and scoped to a section, so a
// label shared by two sections (기타) resolves by where it appears.
package labels

import (
	_ "embed"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Section keys.
const (
	SectionBase     = "base"
	SectionVariable = "variableCostDetail"
	SectionFixed    = "fixedCostDetail"
)

//go:embed labels.yaml
var embedded []byte

var defaultDict = mustParse(embedded)

// Dictionary is a parsed label dictionary.
type Dictionary struct {
	Version  int       `yaml:"version"`
	Markers  []string  `yaml:"markers"`
	Sections []Section `yaml:"sections"`

	byHeader map[string]string
	byLabel  map[string]map[string]string
	byKey    map[string]map[string]string
}

// Section is one labelled block of the Inputs sheet.
type Section struct {
	Key    string            `yaml:"key"`
	Header string            `yaml:"header"`
	Fields map[string]string `yaml:"fields"`
}

// Default returns the embedded dictionary.
func Default() *Dictionary {
	return defaultDict
}

// Parse decodes and indexes a YAML dictionary.
func Parse(data []byte) (*Dictionary, error) {
	var d Dictionary
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, eris.Wrap(err, "labels: parse dictionary")
	}
	if d.Version <= 0 {
		return nil, eris.New("labels: version must be positive")
	}

	d.byHeader = make(map[string]string, len(d.Sections))
	d.byLabel = make(map[string]map[string]string, len(d.Sections))
	d.byKey = make(map[string]map[string]string, len(d.Sections))

	for _, s := range d.Sections {
		if s.Key == "" || s.Header == "" {
			return nil, eris.Errorf("labels: section %q needs key and header", s.Key)
		}
		if _, dup := d.byHeader[s.Header]; dup {
			return nil, eris.Errorf("labels: duplicate section header %q", s.Header)
		}
		d.byHeader[s.Header] = s.Key

		labels := make(map[string]string, len(s.Fields))
		keys := make(map[string]string, len(s.Fields))
		for label, key := range s.Fields {
			if prev, dup := keys[key]; dup {
				return nil, eris.Errorf("labels: section %s maps %q and %q to %s", s.Key, prev, label, key)
			}
			labels[label] = key
			keys[key] = label
		}
		d.byLabel[s.Key] = labels
		d.byKey[s.Key] = keys
	}
	return &d, nil
}

func mustParse(data []byte) *Dictionary {
	d, err := Parse(data)
	if err != nil {
		panic(err)
	}
	return d
}

// Clean strips layout decoration from a sheet label: surrounding space,
// leading section markers and a trailing colon.
func (d *Dictionary) Clean(label string) string {
	s := strings.TrimSpace(label)
	for {
		trimmed := s
		for _, m := range d.Markers {
			trimmed = strings.TrimPrefix(trimmed, m)
		}
		trimmed = strings.TrimSpace(trimmed)
		if trimmed == s {
			break
		}
		s = trimmed
	}
	s = strings.TrimSuffix(s, ":")
	return strings.TrimSpace(s)
}

// SectionFor reports whether a cleaned label is a section header.
func (d *Dictionary) SectionFor(label string) (string, bool) {
	key, ok := d.byHeader[label]
	return key, ok
}

// Field resolves a cleaned label within a section.
func (d *Dictionary) Field(section, label string) (string, bool) {
	key, ok := d.byLabel[section][label]
	return key, ok
}

// Label returns the sheet label for a field key within a section, or the key
// itself when the dictionary has none.
func (d *Dictionary) Label(section, key string) string {
	if l, ok := d.byKey[section][key]; ok {
		return l
	}
	return key
}

// Header returns the sheet header for a section.
func (d *Dictionary) Header(section string) string {
	for _, s := range d.Sections {
		if s.Key == section {
			return s.Header
		}
	}
	return section
}
