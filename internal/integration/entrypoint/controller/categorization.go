// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/isakbosman/manna/internal/application/usecase/categorization"
	domainerror "github.com/isakbosman/manna/internal/domain/error"
	"github.com/isakbosman/manna/internal/integration/entrypoint/dto"
	"github.com/isakbosman/manna/internal/integration/entrypoint/middleware"
)

// CategorizationController handles suggestion engine endpoints.
type CategorizationController struct {
	startUseCase          *categorization.StartCategorizationUseCase
	getStatusUseCase      *categorization.GetStatusUseCase
	getSuggestionsUseCase *categorization.GetSuggestionsUseCase
	approveUseCase        *categorization.ApproveSuggestionUseCase
	rejectUseCase         *categorization.RejectSuggestionUseCase
	clearUseCase          *categorization.ClearSuggestionsUseCase
}

// NewCategorizationController creates a new categorization controller instance.
func NewCategorizationController(
	startUseCase *categorization.StartCategorizationUseCase,
	getStatusUseCase *categorization.GetStatusUseCase,
	getSuggestionsUseCase *categorization.GetSuggestionsUseCase,
	approveUseCase *categorization.ApproveSuggestionUseCase,
	rejectUseCase *categorization.RejectSuggestionUseCase,
	clearUseCase *categorization.ClearSuggestionsUseCase,
) *CategorizationController {
	return &CategorizationController{
		startUseCase:          startUseCase,
		getStatusUseCase:      getStatusUseCase,
		getSuggestionsUseCase: getSuggestionsUseCase,
		approveUseCase:        approveUseCase,
		rejectUseCase:         rejectUseCase,
		clearUseCase:          clearUseCase,
	}
}

// Start handles POST /categorization/start requests.
func (c *CategorizationController) Start(ctx *gin.Context) {
	// Get user ID from context
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return
	}

	// Execute use case
	output, err := c.startUseCase.Execute(ctx.Request.Context(), categorization.StartCategorizationInput{
		UserID: userID,
	})
	if err != nil {
		c.handleCategorizationError(ctx, err)
		return
	}

	// Build response
	ctx.JSON(http.StatusAccepted, dto.StartCategorizationResponse{
		JobID:   output.JobID,
		Message: output.Message,
	})
}

// GetStatus handles GET /categorization/status requests.
func (c *CategorizationController) GetStatus(ctx *gin.Context) {
	// Get user ID from context
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return
	}

	// Execute use case
	output, err := c.getStatusUseCase.Execute(ctx.Request.Context(), categorization.GetStatusInput{
		UserID: userID,
	})
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error: "Failed to retrieve categorization status",
		})
		return
	}

	// Build response
	response := dto.ToCategorizationStatusResponse(output)
	ctx.JSON(http.StatusOK, response)
}

// GetSuggestions handles GET /categorization/suggestions requests.
func (c *CategorizationController) GetSuggestions(ctx *gin.Context) {
	// Get user ID from context
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return
	}

	// Execute use case
	output, err := c.getSuggestionsUseCase.Execute(ctx.Request.Context(), categorization.GetSuggestionsInput{
		UserID: userID,
	})
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error: "Failed to retrieve suggestions",
		})
		return
	}

	// Build response
	response := dto.ToSuggestionListResponse(output.Suggestions)
	ctx.JSON(http.StatusOK, response)
}

// Approve handles POST /categorization/suggestions/:id/approve requests.
func (c *CategorizationController) Approve(ctx *gin.Context) {
	// Get user ID from context
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return
	}

	// Parse suggestion ID from URL
	suggestionIDStr := ctx.Param("id")
	suggestionID, err := uuid.Parse(suggestionIDStr)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid suggestion ID format",
		})
		return
	}

	// The body is optional; an empty one means approve without a rule.
	var req dto.ApproveSuggestionRequest
	_ = ctx.ShouldBindJSON(&req)

	// Execute use case
	output, err := c.approveUseCase.Execute(ctx.Request.Context(), categorization.ApproveSuggestionInput{
		UserID:       userID,
		SuggestionID: suggestionID,
		CreateRule:   req.CreateRule,
	})
	if err != nil {
		c.handleCategorizationError(ctx, err)
		return
	}

	// Build response
	ctx.JSON(http.StatusOK, dto.ApproveSuggestionResponse{
		CategoryID:          output.CategoryID.String(),
		CategoryCreated:     output.CategoryCreated,
		TransactionsUpdated: output.TransactionsUpdated,
		RuleCreated:         output.RuleCreated,
	})
}

// Reject handles POST /categorization/suggestions/:id/reject requests.
func (c *CategorizationController) Reject(ctx *gin.Context) {
	// Get user ID from context
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return
	}

	// Parse suggestion ID from URL
	suggestionIDStr := ctx.Param("id")
	suggestionID, err := uuid.Parse(suggestionIDStr)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid suggestion ID format",
		})
		return
	}

	// Execute use case
	_, err = c.rejectUseCase.Execute(ctx.Request.Context(), categorization.RejectSuggestionInput{
		UserID:       userID,
		SuggestionID: suggestionID,
	})
	if err != nil {
		c.handleCategorizationError(ctx, err)
		return
	}

	// Return no content on success
	ctx.Status(http.StatusNoContent)
}

// Clear handles DELETE /categorization/suggestions requests.
func (c *CategorizationController) Clear(ctx *gin.Context) {
	// Get user ID from context
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return
	}

	// Execute use case
	output, err := c.clearUseCase.Execute(ctx.Request.Context(), categorization.ClearSuggestionsInput{
		UserID: userID,
	})
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error: "Failed to clear suggestions",
		})
		return
	}

	// Build response
	ctx.JSON(http.StatusOK, dto.ClearSuggestionsResponse{
		Deleted: output.Deleted,
	})
}

// handleCategorizationError handles categorization errors and returns
// appropriate HTTP responses.
func (c *CategorizationController) handleCategorizationError(ctx *gin.Context, err error) {
	var sugErr *domainerror.CategorizationError
	if errors.As(err, &sugErr) {
		statusCode := c.getStatusCodeForCategorizationError(sugErr.Code)
		ctx.JSON(statusCode, dto.ErrorResponse{
			Error: sugErr.Message,
			Code:  string(sugErr.Code),
		})
		return
	}

	// Generic server error
	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
	})
}

// getStatusCodeForCategorizationError maps categorization error codes to HTTP
// status codes.
func (c *CategorizationController) getStatusCodeForCategorizationError(code domainerror.CategorizationErrorCode) int {
	switch code {
	case domainerror.ErrCodeSuggestionNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeNotAuthorizedSuggestion:
		return http.StatusForbidden
	case domainerror.ErrCodeSuggestionNotPending,
		domainerror.ErrCodeCategorizationRunning:
		return http.StatusConflict
	case domainerror.ErrCodeNoUncategorized:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
