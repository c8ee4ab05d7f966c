// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// SuggestionStatus represents the status of a categorization suggestion.
type SuggestionStatus string

const (
	SuggestionStatusPending  SuggestionStatus = "pending"
	SuggestionStatusApproved SuggestionStatus = "approved"
	SuggestionStatusRejected SuggestionStatus = "rejected"
)

// SuggestionSource identifies which layer of the engine produced a suggestion.
type SuggestionSource string

const (
	SuggestionSourceRule       SuggestionSource = "rule"
	SuggestionSourceClassifier SuggestionSource = "classifier"
	SuggestionSourceLLM        SuggestionSource = "llm"
)

// MatchType represents the type of pattern matching behind a suggestion.
type MatchType string

const (
	MatchTypeContains   MatchType = "contains"
	MatchTypeStartsWith MatchType = "startsWith"
	MatchTypeExact      MatchType = "exact"
)

// SuggestedCategoryNew describes a category the engine proposes to create.
type SuggestedCategoryNew struct {
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

// CategorySuggestion is a pending categorization produced by the suggestion
// engine for an uncategorized transaction. It names either an existing
// category or a new one, plus the keyword that would become a rule on
// approval.
type CategorySuggestion struct {
	ID                     uuid.UUID
	UserID                 uuid.UUID
	TransactionID          uuid.UUID // Primary transaction that triggered the suggestion
	SuggestedCategoryID    *uuid.UUID
	SuggestedCategoryNew   *SuggestedCategoryNew
	MatchType              MatchType
	MatchKeyword           string
	AffectedTransactionIDs []uuid.UUID
	Confidence             float64
	Source                 SuggestionSource
	Reasoning              string
	Status                 SuggestionStatus
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// NewCategorySuggestion creates a pending suggestion for an existing category.
func NewCategorySuggestion(
	userID, transactionID, categoryID uuid.UUID,
	matchType MatchType,
	matchKeyword string,
	affected []uuid.UUID,
	confidence float64,
	source SuggestionSource,
	reasoning string,
) *CategorySuggestion {
	now := time.Now().UTC()
	return &CategorySuggestion{
		ID:                     uuid.New(),
		UserID:                 userID,
		TransactionID:          transactionID,
		SuggestedCategoryID:    &categoryID,
		MatchType:              matchType,
		MatchKeyword:           matchKeyword,
		AffectedTransactionIDs: affected,
		Confidence:             confidence,
		Source:                 source,
		Reasoning:              reasoning,
		Status:                 SuggestionStatusPending,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
}

// NewCategorySuggestionWithNewCategory creates a pending suggestion proposing
// a category that does not exist yet.
func NewCategorySuggestionWithNewCategory(
	userID, transactionID uuid.UUID,
	newCategory SuggestedCategoryNew,
	matchType MatchType,
	matchKeyword string,
	affected []uuid.UUID,
	confidence float64,
	source SuggestionSource,
	reasoning string,
) *CategorySuggestion {
	now := time.Now().UTC()
	return &CategorySuggestion{
		ID:                     uuid.New(),
		UserID:                 userID,
		TransactionID:          transactionID,
		SuggestedCategoryNew:   &newCategory,
		MatchType:              matchType,
		MatchKeyword:           matchKeyword,
		AffectedTransactionIDs: affected,
		Confidence:             confidence,
		Source:                 source,
		Reasoning:              reasoning,
		Status:                 SuggestionStatusPending,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
}

// CategorySuggestionWithDetails bundles a suggestion with the transactions
// and category it refers to.
type CategorySuggestionWithDetails struct {
	Suggestion               *CategorySuggestion
	Transaction              *Transaction
	Category                 *Category // Only populated if SuggestedCategoryID is set
	AffectedTransactionCount int
}
