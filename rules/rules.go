// Package rules loads the server rule book shown by the /rules command.
package rules

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultRules []byte

var (
	ErrEmpty         = errors.New("rules: rule book is empty")
	ErrDuplicateName = errors.New("rules: duplicate rule name")
	ErrMissingField  = errors.New("rules: missing required field")
)

// Rule is a single server rule.
type Rule struct {
	Name        string   `yaml:"name" json:"name"`
	Title       string   `yaml:"title" json:"title"`
	Author      string   `yaml:"author" json:"author"`
	Description string   `yaml:"description" json:"description"`
	Tags        []string `yaml:"tags" json:"tags"`
}

// Book is the ordered, read-only rule collection. The order of the source
// file is the display order.
type Book struct {
	rules  []Rule
	byName map[string]int
}

// Load reads a YAML rule book from path. An empty path selects the built-in
// rule set.
func Load(path string) (*Book, error) {
	if path == "" {
		return Parse(defaultRules)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("rules: read %s: %w", path, err)
	}
	return Parse(data)
}

// Default returns the built-in rule set.
func Default() *Book {
	b, err := Parse(defaultRules)
	if err != nil {
		panic(err)
	}
	return b
}

// Parse decodes and validates a YAML rule book.
func Parse(data []byte) (*Book, error) {
	var list []Rule
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("rules: decode: %w", err)
	}
	return New(list)
}

// New validates list and wraps it in a Book.
func New(list []Rule) (*Book, error) {
	if len(list) == 0 {
		return nil, ErrEmpty
	}

	b := &Book{
		rules:  make([]Rule, len(list)),
		byName: make(map[string]int, len(list)),
	}
	for idx, r := range list {
		if r.Name == "" {
			return nil, fmt.Errorf("%w: name of rule #%d", ErrMissingField, idx+1)
		}
		if r.Title == "" {
			return nil, fmt.Errorf("%w: title of rule %q", ErrMissingField, r.Name)
		}
		if _, ok := b.byName[r.Name]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateName, r.Name)
		}
		r.Tags = append([]string(nil), r.Tags...)
		b.rules[idx] = r
		b.byName[r.Name] = idx
	}
	return b, nil
}

// Len returns the number of rules.
func (b *Book) Len() int {
	return len(b.rules)
}

// At returns the rule at zero-based position i.
func (b *Book) At(i int) (Rule, bool) {
	if i < 0 || i >= len(b.rules) {
		return Rule{}, false
	}
	return b.rules[i], true
}

// Lookup finds a rule by its name.
func (b *Book) Lookup(name string) (Rule, bool) {
	idx, ok := b.byName[name]
	if !ok {
		return Rule{}, false
	}
	return b.rules[idx], true
}

// All returns a copy of the rules in display order.
func (b *Book) All() []Rule {
	out := make([]Rule, len(b.rules))
	copy(out, b.rules)
	return out
}
