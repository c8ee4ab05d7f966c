// Package model defines database models for persistence layer.
package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/isakbosman/manna/internal/domain/entity"
)

// SuggestedCategoryNewJSON represents the JSONB structure for new category suggestions.
type SuggestedCategoryNewJSON struct {
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

// Value implements the driver.Valuer interface.
func (s SuggestedCategoryNewJSON) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// Scan implements the sql.Scanner interface.
func (s *SuggestedCategoryNewJSON) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}

	return json.Unmarshal(bytes, s)
}

// CategorySuggestionModel represents the category_suggestions table in the database.
type CategorySuggestionModel struct {
	ID                     uuid.UUID                 `gorm:"type:uuid;primaryKey"`
	UserID                 uuid.UUID                 `gorm:"type:uuid;not null;index"`
	TransactionID          uuid.UUID                 `gorm:"type:uuid;not null;index"`
	SuggestedCategoryID    *uuid.UUID                `gorm:"type:uuid;index"`
	SuggestedCategoryNew   *SuggestedCategoryNewJSON `gorm:"type:jsonb"`
	MatchType              string                    `gorm:"type:varchar(20);not null"`
	MatchKeyword           string                    `gorm:"type:varchar(255);not null"`
	AffectedTransactionIDs pq.StringArray            `gorm:"type:uuid[]"`
	Confidence             float64                   `gorm:"type:decimal(4,3);not null;default:0"`
	Source                 string                    `gorm:"type:varchar(20);not null"`
	Reasoning              string                    `gorm:"type:text"`
	Status                 string                    `gorm:"type:varchar(20);not null;default:'pending';index"`
	CreatedAt              time.Time                 `gorm:"not null"`
	UpdatedAt              time.Time                 `gorm:"not null"`
	DeletedAt              gorm.DeletedAt            `gorm:"index"`

	// Relationships (not loaded by default, use Preload)
	Transaction *TransactionModel `gorm:"foreignKey:TransactionID;references:ID"`
	Category    *CategoryModel    `gorm:"foreignKey:SuggestedCategoryID;references:ID"`
}

// TableName returns the table name for the CategorySuggestionModel.
func (CategorySuggestionModel) TableName() string {
	return "category_suggestions"
}

// ToEntity converts a CategorySuggestionModel to a domain CategorySuggestion entity.
func (m *CategorySuggestionModel) ToEntity() *entity.CategorySuggestion {
	suggestion := &entity.CategorySuggestion{
		ID:                  m.ID,
		UserID:              m.UserID,
		TransactionID:       m.TransactionID,
		SuggestedCategoryID: m.SuggestedCategoryID,
		MatchType:           entity.MatchType(m.MatchType),
		MatchKeyword:        m.MatchKeyword,
		Confidence:          m.Confidence,
		Source:              entity.SuggestionSource(m.Source),
		Reasoning:           m.Reasoning,
		Status:              entity.SuggestionStatus(m.Status),
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}

	if m.SuggestedCategoryNew != nil {
		suggestion.SuggestedCategoryNew = &entity.SuggestedCategoryNew{
			Name:  m.SuggestedCategoryNew.Name,
			Icon:  m.SuggestedCategoryNew.Icon,
			Color: m.SuggestedCategoryNew.Color,
		}
	}

	suggestion.AffectedTransactionIDs = make([]uuid.UUID, 0, len(m.AffectedTransactionIDs))
	for _, idStr := range m.AffectedTransactionIDs {
		if id, err := uuid.Parse(idStr); err == nil {
			suggestion.AffectedTransactionIDs = append(suggestion.AffectedTransactionIDs, id)
		}
	}

	return suggestion
}

// ToEntityWithDetails converts a CategorySuggestionModel with relationships to a domain entity with details.
func (m *CategorySuggestionModel) ToEntityWithDetails() *entity.CategorySuggestionWithDetails {
	result := &entity.CategorySuggestionWithDetails{
		Suggestion:               m.ToEntity(),
		AffectedTransactionCount: len(m.AffectedTransactionIDs),
	}

	if m.Transaction != nil {
		result.Transaction = m.Transaction.ToEntity()
	}

	if m.Category != nil {
		result.Category = m.Category.ToEntity()
	}

	return result
}

// CategorySuggestionFromEntity creates a CategorySuggestionModel from a domain entity.
func CategorySuggestionFromEntity(suggestion *entity.CategorySuggestion) *CategorySuggestionModel {
	model := &CategorySuggestionModel{
		ID:                  suggestion.ID,
		UserID:              suggestion.UserID,
		TransactionID:       suggestion.TransactionID,
		SuggestedCategoryID: suggestion.SuggestedCategoryID,
		MatchType:           string(suggestion.MatchType),
		MatchKeyword:        suggestion.MatchKeyword,
		Confidence:          suggestion.Confidence,
		Source:              string(suggestion.Source),
		Reasoning:           suggestion.Reasoning,
		Status:              string(suggestion.Status),
		CreatedAt:           suggestion.CreatedAt,
		UpdatedAt:           suggestion.UpdatedAt,
	}

	if suggestion.SuggestedCategoryNew != nil {
		model.SuggestedCategoryNew = &SuggestedCategoryNewJSON{
			Name:  suggestion.SuggestedCategoryNew.Name,
			Icon:  suggestion.SuggestedCategoryNew.Icon,
			Color: suggestion.SuggestedCategoryNew.Color,
		}
	}

	model.AffectedTransactionIDs = make(pq.StringArray, len(suggestion.AffectedTransactionIDs))
	for i, id := range suggestion.AffectedTransactionIDs {
		model.AffectedTransactionIDs[i] = id.String()
	}

	return model
}
