// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/isakbosman/manna/internal/application/usecase/reports"
	domainerror "github.com/isakbosman/manna/internal/domain/error"
	"github.com/isakbosman/manna/internal/integration/entrypoint/dto"
	"github.com/isakbosman/manna/internal/integration/entrypoint/middleware"
)

// ReportsController handles reporting endpoints.
type ReportsController struct {
	trendsUseCase         *reports.GetTrendsUseCase
	breakdownUseCase      *reports.GetCategoryBreakdownUseCase
	categoryTrendsUseCase *reports.GetCategoryTrendsUseCase
	cashFlowUseCase       *reports.GetCashFlowUseCase
	dataRangeUseCase      *reports.GetDataRangeUseCase
}

// NewReportsController creates a new reports controller instance.
func NewReportsController(
	trendsUseCase *reports.GetTrendsUseCase,
	breakdownUseCase *reports.GetCategoryBreakdownUseCase,
	categoryTrendsUseCase *reports.GetCategoryTrendsUseCase,
	cashFlowUseCase *reports.GetCashFlowUseCase,
	dataRangeUseCase *reports.GetDataRangeUseCase,
) *ReportsController {
	return &ReportsController{
		trendsUseCase:         trendsUseCase,
		breakdownUseCase:      breakdownUseCase,
		categoryTrendsUseCase: categoryTrendsUseCase,
		cashFlowUseCase:       cashFlowUseCase,
		dataRangeUseCase:      dataRangeUseCase,
	}
}

// parseReportPeriod reads the required startDate/endDate query parameters.
func parseReportPeriod(ctx *gin.Context) (time.Time, time.Time, bool) {
	startDateStr := ctx.Query("startDate")
	if startDateStr == "" {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "startDate is required",
			Code:  string(domainerror.ErrCodeMissingStartDate),
		})
		return time.Time{}, time.Time{}, false
	}
	startDate, err := time.Parse("2006-01-02", startDateStr)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid startDate format. Use YYYY-MM-DD",
			Code:  string(domainerror.ErrCodeInvalidDateFormat),
		})
		return time.Time{}, time.Time{}, false
	}

	endDateStr := ctx.Query("endDate")
	if endDateStr == "" {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "endDate is required",
			Code:  string(domainerror.ErrCodeMissingEndDate),
		})
		return time.Time{}, time.Time{}, false
	}
	endDate, err := time.Parse("2006-01-02", endDateStr)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid endDate format. Use YYYY-MM-DD",
			Code:  string(domainerror.ErrCodeInvalidDateFormat),
		})
		return time.Time{}, time.Time{}, false
	}

	return startDate, endDate, true
}

// GetTrends handles GET /reports/trends requests.
func (c *ReportsController) GetTrends(ctx *gin.Context) {
	// Get user ID from context
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return
	}

	startDate, endDate, ok := parseReportPeriod(ctx)
	if !ok {
		return
	}

	granularity := reports.Granularity(ctx.DefaultQuery("granularity", string(reports.GranularityMonthly)))

	// Execute use case
	output, err := c.trendsUseCase.Execute(ctx.Request.Context(), reports.GetTrendsInput{
		UserID:      userID,
		StartDate:   startDate,
		EndDate:     endDate,
		Granularity: granularity,
	})
	if err != nil {
		c.handleReportError(ctx, err)
		return
	}

	// Build response
	response := dto.ToTrendsResponse(output)
	ctx.JSON(http.StatusOK, response)
}

// GetCategoryBreakdown handles GET /reports/category-breakdown requests.
func (c *ReportsController) GetCategoryBreakdown(ctx *gin.Context) {
	// Get user ID from context
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return
	}

	startDate, endDate, ok := parseReportPeriod(ctx)
	if !ok {
		return
	}

	// Execute use case
	output, err := c.breakdownUseCase.Execute(ctx.Request.Context(), reports.GetCategoryBreakdownInput{
		UserID:    userID,
		StartDate: startDate,
		EndDate:   endDate,
	})
	if err != nil {
		c.handleReportError(ctx, err)
		return
	}

	// Build response
	response := dto.ToCategoryBreakdownResponse(output)
	ctx.JSON(http.StatusOK, response)
}

// GetCategoryTrends handles GET /reports/category-trends requests.
func (c *ReportsController) GetCategoryTrends(ctx *gin.Context) {
	// Get user ID from context
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return
	}

	startDate, endDate, ok := parseReportPeriod(ctx)
	if !ok {
		return
	}

	granularity := reports.Granularity(ctx.DefaultQuery("granularity", string(reports.GranularityMonthly)))

	topCategories := 0
	if topStr := ctx.Query("topCategories"); topStr != "" {
		if top, err := strconv.Atoi(topStr); err == nil {
			topCategories = top
		}
	}

	// Execute use case
	output, err := c.categoryTrendsUseCase.Execute(ctx.Request.Context(), reports.GetCategoryTrendsInput{
		UserID:        userID,
		StartDate:     startDate,
		EndDate:       endDate,
		Granularity:   granularity,
		TopCategories: topCategories,
	})
	if err != nil {
		c.handleReportError(ctx, err)
		return
	}

	// Build response
	response := dto.ToCategoryTrendsResponse(output)
	ctx.JSON(http.StatusOK, response)
}

// GetCashFlow handles GET /reports/cash-flow requests.
func (c *ReportsController) GetCashFlow(ctx *gin.Context) {
	// Get user ID from context
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return
	}

	startDate, endDate, ok := parseReportPeriod(ctx)
	if !ok {
		return
	}

	input := reports.GetCashFlowInput{
		UserID:    userID,
		StartDate: startDate,
		EndDate:   endDate,
	}

	// Optional category filter
	if categoryIDStr := ctx.Query("categoryId"); categoryIDStr != "" {
		categoryID, err := uuid.Parse(categoryIDStr)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "Invalid category ID format",
			})
			return
		}
		input.CategoryID = &categoryID
	}

	// Parse pagination
	if limitStr := ctx.Query("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			input.Limit = limit
		}
	}
	if offsetStr := ctx.Query("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil {
			input.Offset = offset
		}
	}

	// Execute use case
	output, err := c.cashFlowUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleReportError(ctx, err)
		return
	}

	// Build response
	response := dto.ToCashFlowResponse(output)
	ctx.JSON(http.StatusOK, response)
}

// GetDataRange handles GET /reports/data-range requests.
func (c *ReportsController) GetDataRange(ctx *gin.Context) {
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
	output, err := c.dataRangeUseCase.Execute(ctx.Request.Context(), reports.GetDataRangeInput{
		UserID: userID,
	})
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error: "Failed to retrieve data range",
		})
		return
	}

	// Build response
	response := dto.ToDataRangeResponse(output)
	ctx.JSON(http.StatusOK, response)
}

// handleReportError handles report errors and returns appropriate HTTP responses.
func (c *ReportsController) handleReportError(ctx *gin.Context, err error) {
	var rptErr *domainerror.ReportError
	if errors.As(err, &rptErr) {
		// All report errors are request validation failures.
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: rptErr.Message,
			Code:  string(rptErr.Code),
		})
		return
	}

	// Generic server error
	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
	})
}
