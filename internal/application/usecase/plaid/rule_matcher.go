// Package plaid contains use cases for linking and syncing bank accounts.
package plaid

import (
	"log/slog"
	"regexp"

	"github.com/google/uuid"

	"github.com/isakbosman/manna/internal/domain/entity"
)

// ruleMatcher applies a user's category rules to incoming transactions.
// Patterns are compiled once per sync run instead of once per transaction.
type ruleMatcher struct {
	rules    []*entity.CategoryRule
	compiled []*regexp.Regexp
}

// newRuleMatcher compiles the rules, skipping any with invalid patterns.
// Rules arrive sorted by priority (highest first).
func newRuleMatcher(rules []*entity.CategoryRule) *ruleMatcher {
	m := &ruleMatcher{}
	for _, rule := range rules {
		re, err := regexp.Compile("(?i)" + rule.Pattern)
		if err != nil {
			slog.Debug("Skipping rule with invalid pattern",
				"ruleID", rule.ID,
				"pattern", rule.Pattern,
				"error", err,
			)
			continue
		}
		m.rules = append(m.rules, rule)
		m.compiled = append(m.compiled, re)
	}
	return m
}

// match returns the category of the first rule matching the description or
// merchant name, or nil when nothing matches.
func (m *ruleMatcher) match(description, merchantName string) *uuid.UUID {
	for i, re := range m.compiled {
		if re.MatchString(description) || (merchantName != "" && re.MatchString(merchantName)) {
			categoryID := m.rules[i].CategoryID
			return &categoryID
		}
	}
	return nil
}
