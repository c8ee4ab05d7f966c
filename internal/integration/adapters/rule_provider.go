// Package adapters provides implementations for external service integrations.
package adapters

import (
	"context"
	"fmt"
	"regexp"

	"github.com/google/uuid"

	"github.com/isakbosman/manna/internal/application/adapter"
	"github.com/isakbosman/manna/internal/domain/entity"
)

// RuleProvider is the first suggestion layer. It replays the user's existing
// category rules against the uncategorized transactions, so transactions that
// predate a rule (or arrived while it was disabled) still get covered.
type RuleProvider struct {
	ruleRepo adapter.CategoryRuleRepository
}

// NewRuleProvider creates a new RuleProvider instance.
func NewRuleProvider(ruleRepo adapter.CategoryRuleRepository) *RuleProvider {
	return &RuleProvider{
		ruleRepo: ruleRepo,
	}
}

// Suggest groups the transactions each active rule matches into one proposal
// per rule. Rules are checked highest priority first, and a transaction is
// claimed by the first rule that matches it.
func (p *RuleProvider) Suggest(ctx context.Context, cc adapter.CategorizationContext) ([]adapter.ProviderSuggestion, error) {
	rules, err := p.ruleRepo.FindActiveByUser(ctx, cc.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load category rules: %w", err)
	}
	if len(rules) == 0 {
		return nil, nil
	}

	type compiledRule struct {
		rule *entity.CategoryRule
		re   *regexp.Regexp
	}
	compiled := make([]compiledRule, 0, len(rules))
	for _, rule := range rules {
		re, err := regexp.Compile("(?i)" + rule.Pattern)
		if err != nil {
			continue
		}
		compiled = append(compiled, compiledRule{rule: rule, re: re})
	}

	matches := make(map[uuid.UUID][]*entity.Transaction)
	claimed := make(map[uuid.UUID]bool)
	for _, txn := range cc.Transactions {
		for _, cr := range compiled {
			if claimed[txn.ID] {
				break
			}
			if cr.re.MatchString(txn.Description) ||
				(txn.MerchantName != "" && cr.re.MatchString(txn.MerchantName)) {
				matches[cr.rule.ID] = append(matches[cr.rule.ID], txn)
				claimed[txn.ID] = true
			}
		}
	}

	var proposals []adapter.ProviderSuggestion
	for _, cr := range compiled {
		matched := matches[cr.rule.ID]
		if len(matched) == 0 {
			continue
		}

		categoryID := cr.rule.CategoryID.String()
		affected := make([]string, 0, len(matched)-1)
		for _, txn := range matched[1:] {
			affected = append(affected, txn.ID.String())
		}

		proposals = append(proposals, adapter.ProviderSuggestion{
			TransactionID:          matched[0].ID.String(),
			CategoryID:             &categoryID,
			MatchType:              entity.MatchTypeContains,
			MatchKeyword:           cr.rule.Pattern,
			Confidence:             1.0,
			Source:                 entity.SuggestionSourceRule,
			Reasoning:              fmt.Sprintf("matched existing rule pattern %q", cr.rule.Pattern),
			AffectedTransactionIDs: affected,
		})
	}

	return proposals, nil
}
