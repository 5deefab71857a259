// Package replacement loads the ordered substitution rules applied to input
// lines before tokenization.
//
// A rule resource is a single flat mapping of pattern to replacement. Both
// JSON objects and YAML mappings are accepted; declaration order is kept.
package replacement

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"yase/internal/domain"
)

//go:embed replacement.json
var defaultResource []byte

// Default returns the bundled rule set.
func Default() domain.RuleSet {
	rules, err := Parse(defaultResource)
	if err != nil {
		panic(fmt.Sprintf("replacement: bundled rules: %v", err))
	}
	return rules
}

// Load returns the rules to apply. With suppress set the result is always
// empty. An empty path selects the bundled rules.
func Load(path string, suppress bool) (domain.RuleSet, error) {
	if suppress {
		return domain.RuleSet{}, nil
	}
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read replacements %s: %w", path, err)
	}
	rules, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse replacements %s: %w", path, err)
	}
	return rules, nil
}

// Parse decodes a rule resource, keeping the order in which keys appear.
// A payload starting with '{' is read as JSON, anything else as YAML. A key
// given twice keeps its first position and takes the last value.
func Parse(data []byte) (domain.RuleSet, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n\ufeff")
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return parseJSON(trimmed)
	}
	return parseYAML(data)
}

func parseJSON(data []byte) (domain.RuleSet, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	malformed := func(format string, args ...any) error {
		return fmt.Errorf("%w: offset %d: %s", domain.ErrMalformedRules, dec.InputOffset(), fmt.Sprintf(format, args...))
	}
	if _, err := dec.Token(); err != nil {
		return nil, malformed("%v", err)
	}
	var b ruleBuilder
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return nil, malformed("%v", err)
		}
		vt, err := dec.Token()
		if err != nil {
			return nil, malformed("%v", err)
		}
		val, ok := vt.(string)
		if !ok {
			return nil, malformed("value of %q is not a string", kt)
		}
		if err := b.add(kt.(string), val); err != nil {
			return nil, malformed("%v", err)
		}
	}
	if _, err := dec.Token(); err != nil {
		return nil, malformed("%v", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, malformed("trailing data after object")
	}
	return b.rules(), nil
}

func parseYAML(data []byte) (domain.RuleSet, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedRules, err)
	}
	if len(doc.Content) == 0 {
		return domain.RuleSet{}, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: line %d: expected a mapping", domain.ErrMalformedRules, root.Line)
	}
	var b ruleBuilder
	for i := 0; i+1 < len(root.Content); i += 2 {
		k, v := root.Content[i], root.Content[i+1]
		if !isString(k) || !isString(v) {
			return nil, fmt.Errorf("%w: line %d: keys and values must be strings", domain.ErrMalformedRules, k.Line)
		}
		if err := b.add(k.Value, v.Value); err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", domain.ErrMalformedRules, k.Line, err)
		}
	}
	return b.rules(), nil
}

// ruleBuilder collects rules in first-seen key order, last value wins.
type ruleBuilder struct {
	list domain.RuleSet
	pos  map[string]int
}

func (b *ruleBuilder) add(pattern, replacement string) error {
	if pattern == "" {
		return errors.New("empty pattern")
	}
	if i, ok := b.pos[pattern]; ok {
		b.list[i].Replacement = replacement
		return nil
	}
	if b.pos == nil {
		b.pos = make(map[string]int)
	}
	b.pos[pattern] = len(b.list)
	b.list = append(b.list, domain.ReplacementRule{Pattern: pattern, Replacement: replacement})
	return nil
}

func (b *ruleBuilder) rules() domain.RuleSet {
	if b.list == nil {
		return domain.RuleSet{}
	}
	return b.list
}

func isString(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.Tag != "!!null"
}
