// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/isakbosman/manna/internal/application/usecase/reconciliation"
	domainerror "github.com/isakbosman/manna/internal/domain/error"
	"github.com/isakbosman/manna/internal/integration/entrypoint/dto"
	"github.com/isakbosman/manna/internal/integration/entrypoint/middleware"
)

// ReconciliationController handles reconciliation endpoints.
type ReconciliationController struct {
	getPendingUseCase *reconciliation.GetPendingUseCase
	getLinkedUseCase  *reconciliation.GetLinkedUseCase
	getSummaryUseCase *reconciliation.GetSummaryUseCase
	triggerUseCase    *reconciliation.TriggerReconciliationUseCase
	manualLinkUseCase *reconciliation.ManualLinkUseCase
	unlinkUseCase     *reconciliation.UnlinkUseCase
}

// NewReconciliationController creates a new reconciliation controller instance.
func NewReconciliationController(
	getPendingUseCase *reconciliation.GetPendingUseCase,
	getLinkedUseCase *reconciliation.GetLinkedUseCase,
	getSummaryUseCase *reconciliation.GetSummaryUseCase,
	triggerUseCase *reconciliation.TriggerReconciliationUseCase,
	manualLinkUseCase *reconciliation.ManualLinkUseCase,
	unlinkUseCase *reconciliation.UnlinkUseCase,
) *ReconciliationController {
	return &ReconciliationController{
		getPendingUseCase: getPendingUseCase,
		getLinkedUseCase:  getLinkedUseCase,
		getSummaryUseCase: getSummaryUseCase,
		triggerUseCase:    triggerUseCase,
		manualLinkUseCase: manualLinkUseCase,
		unlinkUseCase:     unlinkUseCase,
	}
}

// parseDateRangeQuery reads the optional startDate/endDate query parameters.
func parseDateRangeQuery(ctx *gin.Context) (*time.Time, *time.Time) {
	var startDate, endDate *time.Time
	if startDateStr := ctx.Query("startDate"); startDateStr != "" {
		if parsed, err := time.Parse("2006-01-02", startDateStr); err == nil {
			startDate = &parsed
		}
	}
	if endDateStr := ctx.Query("endDate"); endDateStr != "" {
		if parsed, err := time.Parse("2006-01-02", endDateStr); err == nil {
			endDate = &parsed
		}
	}
	return startDate, endDate
}

// GetPending handles GET /reconciliation/pending requests.
func (c *ReconciliationController) GetPending(ctx *gin.Context) {
	// Get user ID from context
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return
	}

	startDate, endDate := parseDateRangeQuery(ctx)

	// Execute use case
	output, err := c.getPendingUseCase.Execute(ctx.Request.Context(), reconciliation.GetPendingInput{
		UserID:    userID,
		StartDate: startDate,
		EndDate:   endDate,
	})
	if err != nil {
		c.handleReconciliationError(ctx, err)
		return
	}

	// Build response
	response := dto.ToPendingListResponse(output.Entries)
	ctx.JSON(http.StatusOK, response)
}

// GetLinked handles GET /reconciliation/linked requests.
func (c *ReconciliationController) GetLinked(ctx *gin.Context) {
	// Get user ID from context
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return
	}

	startDate, endDate := parseDateRangeQuery(ctx)

	// Execute use case
	output, err := c.getLinkedUseCase.Execute(ctx.Request.Context(), reconciliation.GetLinkedInput{
		UserID:    userID,
		StartDate: startDate,
		EndDate:   endDate,
	})
	if err != nil {
		c.handleReconciliationError(ctx, err)
		return
	}

	// Build response
	response := dto.ToLinkedListResponse(output.Pairs)
	ctx.JSON(http.StatusOK, response)
}

// GetSummary handles GET /reconciliation/summary requests.
func (c *ReconciliationController) GetSummary(ctx *gin.Context) {
	// Get user ID from context
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return
	}

	startDate, endDate := parseDateRangeQuery(ctx)

	// Execute use case
	output, err := c.getSummaryUseCase.Execute(ctx.Request.Context(), reconciliation.GetSummaryInput{
		UserID:    userID,
		StartDate: startDate,
		EndDate:   endDate,
	})
	if err != nil {
		c.handleReconciliationError(ctx, err)
		return
	}

	// Build response
	ctx.JSON(http.StatusOK, dto.ReconciliationSummaryResponse{
		TotalPending: output.Summary.TotalPending,
		TotalLinked:  output.Summary.TotalLinked,
		AutoLinkable: output.Summary.AutoLinkable,
	})
}

// Trigger handles POST /reconciliation/trigger requests.
func (c *ReconciliationController) Trigger(ctx *gin.Context) {
	// Get user ID from context
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return
	}

	startDate, endDate := parseDateRangeQuery(ctx)

	// Execute use case
	output, err := c.triggerUseCase.Execute(ctx.Request.Context(), reconciliation.TriggerReconciliationInput{
		UserID:    userID,
		StartDate: startDate,
		EndDate:   endDate,
	})
	if err != nil {
		c.handleReconciliationError(ctx, err)
		return
	}

	// Build response
	response := dto.ToReconciliationResultResponse(output.Result)
	ctx.JSON(http.StatusOK, response)
}

// Link handles POST /reconciliation/link requests.
func (c *ReconciliationController) Link(ctx *gin.Context) {
	// Get user ID from context
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return
	}

	// Parse request body
	var req dto.ManualLinkRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body",
		})
		return
	}

	manualID, err := uuid.Parse(req.ManualTransactionID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid manual transaction ID format",
		})
		return
	}
	bankID, err := uuid.Parse(req.BankTransactionID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid bank transaction ID format",
		})
		return
	}

	// Execute use case
	output, err := c.manualLinkUseCase.Execute(ctx.Request.Context(), reconciliation.ManualLinkInput{
		UserID:              userID,
		ManualTransactionID: manualID,
		BankTransactionID:   bankID,
		Force:               req.Force,
	})
	if err != nil {
		c.handleReconciliationError(ctx, err)
		return
	}

	// Build response
	ctx.JSON(http.StatusCreated, dto.ManualLinkResponse{
		ManualTransactionID: output.ManualTransactionID.String(),
		BankTransactionID:   output.BankTransactionID.String(),
		AmountDifference:    output.AmountDifference.String(),
		HasMismatch:         output.HasMismatch,
	})
}

// Unlink handles POST /reconciliation/unlink requests.
func (c *ReconciliationController) Unlink(ctx *gin.Context) {
	// Get user ID from context
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return
	}

	// Parse request body
	var req dto.UnlinkRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body",
		})
		return
	}

	transactionID, err := uuid.Parse(req.TransactionID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid transaction ID format",
		})
		return
	}

	// Execute use case
	_, err = c.unlinkUseCase.Execute(ctx.Request.Context(), reconciliation.UnlinkInput{
		UserID:        userID,
		TransactionID: transactionID,
	})
	if err != nil {
		c.handleReconciliationError(ctx, err)
		return
	}

	// Return no content on success
	ctx.Status(http.StatusNoContent)
}

// handleReconciliationError handles reconciliation errors and returns
// appropriate HTTP responses.
func (c *ReconciliationController) handleReconciliationError(ctx *gin.Context, err error) {
	var recErr *domainerror.ReconciliationError
	if errors.As(err, &recErr) {
		statusCode := c.getStatusCodeForReconciliationError(recErr.Code)
		ctx.JSON(statusCode, dto.ErrorResponse{
			Error: recErr.Message,
			Code:  string(recErr.Code),
		})
		return
	}

	var txnErr *domainerror.TransactionError
	if errors.As(err, &txnErr) {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{
			Error: txnErr.Message,
			Code:  string(txnErr.Code),
		})
		return
	}

	// Generic server error
	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
	})
}

// getStatusCodeForReconciliationError maps reconciliation error codes to HTTP
// status codes.
func (c *ReconciliationController) getStatusCodeForReconciliationError(code domainerror.ReconciliationErrorCode) int {
	switch code {
	case domainerror.ErrCodeReconciliationNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeAlreadyLinked:
		return http.StatusConflict
	case domainerror.ErrCodeAmountMismatch,
		domainerror.ErrCodeSameSourceLink:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
