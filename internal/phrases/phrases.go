// Package phrases holds the single phrase table that decides whether a
// question is informational (neutral) or negative-framed. The classifier and
// the daily score both read from it so the two can never disagree.
package phrases

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed phrases.yaml
var defaultYAML []byte

// Table is a versioned set of lowercase phrases.
type Table struct {
	Version  int                 `yaml:"version"`
	Neutral  map[string][]string `yaml:"neutral"`
	Negative []string            `yaml:"negative"`

	groups []string // sorted neutral group names, for deterministic matching
}

var (
	defaultOnce  sync.Once
	defaultTable *Table
)

// Default returns the embedded table. It panics if the embedded YAML is
// broken, which is caught by the package tests.
func Default() *Table {
	defaultOnce.Do(func() {
		t, err := Parse(defaultYAML)
		if err != nil {
			panic(fmt.Sprintf("load phrases.yaml: %v", err))
		}
		defaultTable = t
	})
	return defaultTable
}

// Parse decodes a phrase table and normalizes every phrase to lowercase.
func Parse(data []byte) (*Table, error) {
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing phrase table: %w", err)
	}
	if t.Version <= 0 {
		return nil, fmt.Errorf("phrase table has no version")
	}
	for group, list := range t.Neutral {
		t.Neutral[group] = normalize(list)
		t.groups = append(t.groups, group)
	}
	sort.Strings(t.groups)
	t.Negative = normalize(t.Negative)
	return &t, nil
}

// LoadFile reads a phrase table from disk, replacing the embedded one.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading phrase table %s: %w", path, err)
	}
	return Parse(data)
}

func normalize(list []string) []string {
	out := make([]string, 0, len(list))
	for _, p := range list {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// NeutralGroup returns the name of the first neutral group (alphabetically)
// with a phrase contained in question, or "" when none matches.
func (t *Table) NeutralGroup(question string) string {
	q := strings.ToLower(question)
	for _, g := range t.groups {
		if containsAny(q, t.Neutral[g]) {
			return g
		}
	}
	return ""
}

// IsNeutral reports whether question is informational rather than evaluative.
func (t *Table) IsNeutral(question string) bool {
	return t.NeutralGroup(question) != ""
}

// IsNegative reports whether question asks about an undesirable behavior.
func (t *Table) IsNegative(question string) bool {
	return containsAny(strings.ToLower(question), t.Negative)
}

func containsAny(s string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
