// Package rules implements the deterministic escalation rule engine. Rules
// are named case-insensitive patterns evaluated independently of the
// classifier so that evaluation runs can measure each verdict source on its
// own. Every rule is always evaluated; nothing short-circuits.
package rules

import (
	"regexp"
	"sort"

	gateerrors "github.com/Pratyay-Mondal/tinder-practice-nlp/internal/errors"
)

// Hit records one rule that fired, with the matched span for audit.
type Hit struct {
	Rule  string `json:"rule"`
	Match string `json:"match"`
}

type compiledRule struct {
	name    string
	pattern *regexp.Regexp
}

// Engine evaluates a fixed rule set against message text. Immutable after
// construction; safe for concurrent use.
type Engine struct {
	rules []compiledRule
}

// NewEngine compiles a name→pattern rule set. Patterns are matched
// case-insensitively. A pattern that does not compile is an
// InvalidConfigError: a broken safety rule must surface, not be skipped.
func NewEngine(ruleSet map[string]string) (*Engine, error) {
	names := make([]string, 0, len(ruleSet))
	for name := range ruleSet {
		names = append(names, name)
	}
	// Sorted compilation order makes hit order deterministic regardless of
	// how the configuration map iterates.
	sort.Strings(names)

	compiled := make([]compiledRule, 0, len(names))
	for _, name := range names {
		re, err := regexp.Compile("(?i)" + ruleSet[name])
		if err != nil {
			return nil, &gateerrors.InvalidConfigError{
				Field:  "rules." + name,
				Reason: err.Error(),
			}
		}
		compiled = append(compiled, compiledRule{name: name, pattern: re})
	}

	return &Engine{rules: compiled}, nil
}

// Evaluate returns every rule that matches text, in deterministic (name)
// order. The full hit list is kept for audit even though gating only needs
// the first hit.
func (e *Engine) Evaluate(text string) []Hit {
	var hits []Hit
	for _, rule := range e.rules {
		if match := rule.pattern.FindString(text); match != "" {
			hits = append(hits, Hit{Rule: rule.name, Match: match})
		}
	}
	return hits
}

// Len returns the number of configured rules.
func (e *Engine) Len() int {
	return len(e.rules)
}

// DefaultRuleSet covers the known-bad phrasings the embedding classifier has
// missed in past runs: direct contact-info pressure, explicit content
// requests, location pressure, and coercive pushback on a stated boundary.
func DefaultRuleSet() map[string]string {
	return map[string]string{
		"personal_info_request":    `(home|your) address|phone number|which apartment|where do you live`,
		"explicit_content_request": `send (me )?(nudes|pics)|naked (photo|pic)`,
		"location_pressure":        `come over (tonight|now|right now)|i('m| am) outside`,
		"coercion":                 `don't be shy|you owe me|stop being (so )?(sensitive|difficult)|why won't you just`,
	}
}
