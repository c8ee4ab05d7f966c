// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/isakbosman/manna/internal/application/usecase/plaid"
	domainerror "github.com/isakbosman/manna/internal/domain/error"
	"github.com/isakbosman/manna/internal/integration/entrypoint/dto"
	"github.com/isakbosman/manna/internal/integration/entrypoint/middleware"
)

// PlaidController handles bank linking and sync endpoints.
type PlaidController struct {
	createLinkTokenUseCase *plaid.CreateLinkTokenUseCase
	exchangeTokenUseCase   *plaid.ExchangePublicTokenUseCase
	listItemsUseCase       *plaid.ListItemsUseCase
	syncUseCase            *plaid.SyncTransactionsUseCase
	removeItemUseCase      *plaid.RemoveItemUseCase
}

// NewPlaidController creates a new Plaid controller instance.
func NewPlaidController(
	createLinkTokenUseCase *plaid.CreateLinkTokenUseCase,
	exchangeTokenUseCase *plaid.ExchangePublicTokenUseCase,
	listItemsUseCase *plaid.ListItemsUseCase,
	syncUseCase *plaid.SyncTransactionsUseCase,
	removeItemUseCase *plaid.RemoveItemUseCase,
) *PlaidController {
	return &PlaidController{
		createLinkTokenUseCase: createLinkTokenUseCase,
		exchangeTokenUseCase:   exchangeTokenUseCase,
		listItemsUseCase:       listItemsUseCase,
		syncUseCase:            syncUseCase,
		removeItemUseCase:      removeItemUseCase,
	}
}

// CreateLinkToken handles POST /plaid/link-token requests.
func (c *PlaidController) CreateLinkToken(ctx *gin.Context) {
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
	output, err := c.createLinkTokenUseCase.Execute(ctx.Request.Context(), plaid.CreateLinkTokenInput{
		UserID: userID,
	})
	if err != nil {
		c.handlePlaidError(ctx, err)
		return
	}

	// Build response
	ctx.JSON(http.StatusOK, dto.LinkTokenResponse{
		LinkToken: output.LinkToken,
	})
}

// ExchangePublicToken handles POST /plaid/exchange requests.
func (c *PlaidController) ExchangePublicToken(ctx *gin.Context) {
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
	var req dto.ExchangePublicTokenRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body",
			Code:  string(domainerror.ErrCodeInvalidPublicToken),
		})
		return
	}

	// Execute use case
	output, err := c.exchangeTokenUseCase.Execute(ctx.Request.Context(), plaid.ExchangePublicTokenInput{
		UserID:      userID,
		PublicToken: req.PublicToken,
	})
	if err != nil {
		c.handlePlaidError(ctx, err)
		return
	}

	// Build response
	response := dto.ToExchangePublicTokenResponse(output)
	ctx.JSON(http.StatusCreated, response)
}

// ListItems handles GET /plaid/items requests.
func (c *PlaidController) ListItems(ctx *gin.Context) {
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
	output, err := c.listItemsUseCase.Execute(ctx.Request.Context(), plaid.ListItemsInput{
		UserID: userID,
	})
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error: "Failed to retrieve bank connections",
		})
		return
	}

	// Build response
	response := dto.ToItemListResponse(output.Items)
	ctx.JSON(http.StatusOK, response)
}

// Sync handles POST /plaid/items/:id/sync requests.
func (c *PlaidController) Sync(ctx *gin.Context) {
	// Get user ID from context
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return
	}

	// Parse item ID from URL
	itemIDStr := ctx.Param("id")
	itemID, err := uuid.Parse(itemIDStr)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid item ID format",
		})
		return
	}

	// Execute use case
	output, err := c.syncUseCase.Execute(ctx.Request.Context(), plaid.SyncTransactionsInput{
		ItemID: itemID,
		UserID: userID,
	})
	if err != nil {
		c.handlePlaidError(ctx, err)
		return
	}

	// Build response
	response := dto.ToSyncResultResponse(output.Result)
	ctx.JSON(http.StatusOK, response)
}

// RemoveItem handles DELETE /plaid/items/:id requests.
func (c *PlaidController) RemoveItem(ctx *gin.Context) {
	// Get user ID from context
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return
	}

	// Parse item ID from URL
	itemIDStr := ctx.Param("id")
	itemID, err := uuid.Parse(itemIDStr)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid item ID format",
		})
		return
	}

	// Execute use case
	_, err = c.removeItemUseCase.Execute(ctx.Request.Context(), plaid.RemoveItemInput{
		ItemID: itemID,
		UserID: userID,
	})
	if err != nil {
		c.handlePlaidError(ctx, err)
		return
	}

	// Return no content on success
	ctx.Status(http.StatusNoContent)
}

// handlePlaidError handles Plaid integration errors and returns appropriate
// HTTP responses.
func (c *PlaidController) handlePlaidError(ctx *gin.Context, err error) {
	var plaidErr *domainerror.PlaidError
	if errors.As(err, &plaidErr) {
		statusCode := c.getStatusCodeForPlaidError(plaidErr.Code)
		ctx.JSON(statusCode, dto.ErrorResponse{
			Error: plaidErr.Message,
			Code:  string(plaidErr.Code),
		})
		return
	}

	// Generic server error
	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
	})
}

// getStatusCodeForPlaidError maps Plaid error codes to HTTP status codes.
func (c *PlaidController) getStatusCodeForPlaidError(code domainerror.PlaidErrorCode) int {
	switch code {
	case domainerror.ErrCodeItemNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeNotAuthorizedItem:
		return http.StatusForbidden
	case domainerror.ErrCodeSyncInProgress,
		domainerror.ErrCodeItemVersionConflict:
		return http.StatusConflict
	case domainerror.ErrCodeInvalidPublicToken:
		return http.StatusBadRequest
	case domainerror.ErrCodeItemLoginRequired:
		return http.StatusUnprocessableEntity
	case domainerror.ErrCodePlaidUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
