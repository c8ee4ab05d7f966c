// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"github.com/isakbosman/manna/internal/application/usecase/categorization"
)

// ApproveSuggestionRequest represents the request body for approving a suggestion.
type ApproveSuggestionRequest struct {
	CreateRule bool `json:"create_rule,omitempty"`
}

// StartCategorizationResponse represents the response for starting a run.
type StartCategorizationResponse struct {
	JobID   string `json:"job_id"`
	Message string `json:"message"`
}

// CategorizationStatusResponse represents the response for the run status.
type CategorizationStatusResponse struct {
	Processing   bool              `json:"processing"`
	JobID        string            `json:"job_id,omitempty"`
	PendingCount int               `json:"pending_count"`
	LastError    *RunErrorResponse `json:"last_error,omitempty"`
}

// RunErrorResponse represents the last run error in API responses.
type RunErrorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
}

// SuggestedCategoryNewResponse describes a proposed new category.
type SuggestedCategoryNewResponse struct {
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

// SuggestionResponse represents one pending suggestion in API responses.
type SuggestionResponse struct {
	ID                       string                        `json:"id"`
	TransactionID            string                        `json:"transaction_id"`
	TransactionDate          string                        `json:"transaction_date"`
	TransactionDescription   string                        `json:"transaction_description"`
	TransactionAmount        string                        `json:"transaction_amount"`
	SuggestedCategoryID      *string                       `json:"suggested_category_id,omitempty"`
	SuggestedCategoryName    string                        `json:"suggested_category_name,omitempty"`
	SuggestedCategoryNew     *SuggestedCategoryNewResponse `json:"suggested_category_new,omitempty"`
	MatchKeyword             string                        `json:"match_keyword,omitempty"`
	Confidence               float64                       `json:"confidence"`
	Source                   string                        `json:"source"`
	Reasoning                string                        `json:"reasoning,omitempty"`
	AffectedTransactionCount int                           `json:"affected_transaction_count"`
}

// SuggestionListResponse represents the response for listing suggestions.
type SuggestionListResponse struct {
	Suggestions []SuggestionResponse `json:"suggestions"`
}

// ApproveSuggestionResponse represents the response for approving a suggestion.
type ApproveSuggestionResponse struct {
	CategoryID          string `json:"category_id"`
	CategoryCreated     bool   `json:"category_created"`
	TransactionsUpdated int64  `json:"transactions_updated"`
	RuleCreated         bool   `json:"rule_created"`
}

// ClearSuggestionsResponse represents the response for clearing suggestions.
type ClearSuggestionsResponse struct {
	Deleted int64 `json:"deleted"`
}

// ToCategorizationStatusResponse converts a GetStatusOutput to its response DTO.
func ToCategorizationStatusResponse(output *categorization.GetStatusOutput) CategorizationStatusResponse {
	response := CategorizationStatusResponse{
		Processing:   output.Processing,
		JobID:        output.JobID,
		PendingCount: output.PendingCount,
	}

	if output.LastError != nil {
		response.LastError = &RunErrorResponse{
			Code:      output.LastError.Code,
			Message:   output.LastError.Message,
			Retryable: output.LastError.Retryable,
		}
	}

	return response
}

// ToSuggestionResponse converts a SuggestionOutput to its response DTO.
func ToSuggestionResponse(output *categorization.SuggestionOutput) SuggestionResponse {
	response := SuggestionResponse{
		ID:                       output.ID.String(),
		TransactionID:            output.TransactionID.String(),
		TransactionDate:          output.TransactionDate.Format("2006-01-02"),
		TransactionDescription:   output.TransactionDescription,
		TransactionAmount:        output.TransactionAmount.String(),
		SuggestedCategoryName:    output.SuggestedCategoryName,
		MatchKeyword:             output.MatchKeyword,
		Confidence:               output.Confidence,
		Source:                   string(output.Source),
		Reasoning:                output.Reasoning,
		AffectedTransactionCount: output.AffectedTransactionCount,
	}

	if output.SuggestedCategoryID != nil {
		categoryIDStr := output.SuggestedCategoryID.String()
		response.SuggestedCategoryID = &categoryIDStr
	}

	if output.SuggestedCategoryNew != nil {
		response.SuggestedCategoryNew = &SuggestedCategoryNewResponse{
			Name:  output.SuggestedCategoryNew.Name,
			Icon:  output.SuggestedCategoryNew.Icon,
			Color: output.SuggestedCategoryNew.Color,
		}
	}

	return response
}

// ToSuggestionListResponse converts a list of SuggestionOutput to
// SuggestionListResponse.
func ToSuggestionListResponse(outputs []*categorization.SuggestionOutput) SuggestionListResponse {
	suggestions := make([]SuggestionResponse, len(outputs))
	for i, output := range outputs {
		suggestions[i] = ToSuggestionResponse(output)
	}
	return SuggestionListResponse{
		Suggestions: suggestions,
	}
}
