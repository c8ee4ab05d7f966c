// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/isakbosman/manna/internal/application/usecase/journal"
	domainerror "github.com/isakbosman/manna/internal/domain/error"
	"github.com/isakbosman/manna/internal/integration/entrypoint/dto"
	"github.com/isakbosman/manna/internal/integration/entrypoint/middleware"
)

// JournalController handles double-entry journal endpoints.
type JournalController struct {
	listEntriesUseCase  *journal.ListEntriesUseCase
	trialBalanceUseCase *journal.GetTrialBalanceUseCase
}

// NewJournalController creates a new journal controller instance.
func NewJournalController(
	listEntriesUseCase *journal.ListEntriesUseCase,
	trialBalanceUseCase *journal.GetTrialBalanceUseCase,
) *JournalController {
	return &JournalController{
		listEntriesUseCase:  listEntriesUseCase,
		trialBalanceUseCase: trialBalanceUseCase,
	}
}

// parseJournalPeriod reads the required startDate/endDate query parameters.
func parseJournalPeriod(ctx *gin.Context) (time.Time, time.Time, bool) {
	startDate, err := time.Parse("2006-01-02", ctx.Query("startDate"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "startDate is required in YYYY-MM-DD format",
			Code:  string(domainerror.ErrCodeInvalidDateFormat),
		})
		return time.Time{}, time.Time{}, false
	}
	endDate, err := time.Parse("2006-01-02", ctx.Query("endDate"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "endDate is required in YYYY-MM-DD format",
			Code:  string(domainerror.ErrCodeInvalidDateFormat),
		})
		return time.Time{}, time.Time{}, false
	}
	return startDate, endDate, true
}

// ListEntries handles GET /journal/entries requests.
func (c *JournalController) ListEntries(ctx *gin.Context) {
	// Get user ID from context
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return
	}

	startDate, endDate, ok := parseJournalPeriod(ctx)
	if !ok {
		return
	}

	// Execute use case
	output, err := c.listEntriesUseCase.Execute(ctx.Request.Context(), journal.ListEntriesInput{
		UserID:    userID,
		StartDate: startDate,
		EndDate:   endDate,
	})
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error: "Failed to retrieve journal entries",
		})
		return
	}

	// Build response
	response := dto.ToJournalEntryListResponse(output.Entries)
	ctx.JSON(http.StatusOK, response)
}

// GetTrialBalance handles GET /journal/trial-balance requests.
func (c *JournalController) GetTrialBalance(ctx *gin.Context) {
	// Get user ID from context
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return
	}

	startDate, endDate, ok := parseJournalPeriod(ctx)
	if !ok {
		return
	}

	// Execute use case
	output, err := c.trialBalanceUseCase.Execute(ctx.Request.Context(), journal.GetTrialBalanceInput{
		UserID:    userID,
		StartDate: startDate,
		EndDate:   endDate,
	})
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error: "Failed to build trial balance",
		})
		return
	}

	// Build response
	response := dto.ToTrialBalanceResponse(output.TrialBalance)
	ctx.JSON(http.StatusOK, response)
}
