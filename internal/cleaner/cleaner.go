// Package cleaner rewrites raw input lines with ordered replacement rules.
package cleaner

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"yase/internal/domain"
)

// Apply runs every rule over text in order. Each rule operates on the output
// of the previous one. Patterns are matched literally.
func Apply(text string, rules domain.RuleSet) string {
	for _, r := range rules {
		text = strings.ReplaceAll(text, r.Pattern, r.Replacement)
	}
	return text
}

// Cleaner bundles a rule set with optional Unicode normalization.
type Cleaner struct {
	rules     domain.RuleSet
	normalize bool
}

// New returns a Cleaner. With normalize set, text is NFKC-normalized before
// the rules run, so compatibility forms such as ligatures or full-width
// punctuation reach the rules in their canonical spelling.
func New(rules domain.RuleSet, normalize bool) *Cleaner {
	return &Cleaner{rules: rules, normalize: normalize}
}

// Clean normalizes (if enabled) and applies the rules.
func (c *Cleaner) Clean(text string) string {
	if c.normalize {
		text = norm.NFKC.String(text)
	}
	return Apply(text, c.rules)
}

// Rules returns the rule set in application order.
func (c *Cleaner) Rules() domain.RuleSet { return c.rules }
