// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"time"

	"github.com/isakbosman/manna/internal/application/usecase/reports"
)

// TrendPointResponse represents a single trend data point in API responses.
type TrendPointResponse struct {
	Date             string `json:"date"`
	PeriodLabel      string `json:"period_label"`
	Income           string `json:"income"`
	Expenses         string `json:"expenses"`
	Balance          string `json:"balance"`
	TransactionCount int    `json:"transaction_count"`
}

// TrendsPeriodResponse represents the period information for trends.
type TrendsPeriodResponse struct {
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Granularity string `json:"granularity"`
}

// TrendsResponse represents the response for the income/expense trends report.
type TrendsResponse struct {
	Period TrendsPeriodResponse `json:"period"`
	Trends []TrendPointResponse `json:"trends"`
}

// CategoryBreakdownItemResponse represents a single category in the breakdown.
type CategoryBreakdownItemResponse struct {
	CategoryID       string  `json:"category_id"`
	CategoryName     string  `json:"category_name"`
	CategoryColor    string  `json:"category_color"`
	CategoryIcon     string  `json:"category_icon"`
	Amount           string  `json:"amount"`
	Percentage       float64 `json:"percentage"`
	TransactionCount int     `json:"transaction_count"`
}

// CategoryBreakdownResponse represents the category breakdown report.
type CategoryBreakdownResponse struct {
	Period        BreakdownPeriodResponse         `json:"period"`
	TotalExpenses string                          `json:"total_expenses"`
	Categories    []CategoryBreakdownItemResponse `json:"categories"`
}

// BreakdownPeriodResponse represents the period information for the breakdown.
type BreakdownPeriodResponse struct {
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	PeriodLabel string `json:"period_label"`
}

// CategoryInfoResponse represents a category series in the trends report.
type CategoryInfoResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Color       string `json:"color"`
	TotalAmount string `json:"total_amount"`
	IsOthers    bool   `json:"is_others"`
}

// CategoryAmountResponse represents the amount for a category in one period.
type CategoryAmountResponse struct {
	CategoryID string `json:"category_id"`
	Amount     string `json:"amount"`
}

// TrendDataPointResponse represents one period with per-category amounts.
type TrendDataPointResponse struct {
	Date        string                   `json:"date"`
	PeriodLabel string                   `json:"period_label"`
	Amounts     []CategoryAmountResponse `json:"amounts"`
}

// CategoryTrendsResponse represents the per-category trends report.
type CategoryTrendsResponse struct {
	Period     TrendsPeriodResponse     `json:"period"`
	Categories []CategoryInfoResponse   `json:"categories"`
	Trends     []TrendDataPointResponse `json:"trends"`
}

// CashFlowTransactionResponse represents one transaction in the cash flow listing.
type CashFlowTransactionResponse struct {
	ID            string  `json:"id"`
	Description   string  `json:"description"`
	Amount        string  `json:"amount"`
	Date          string  `json:"date"`
	CategoryID    *string `json:"category_id,omitempty"`
	CategoryName  *string `json:"category_name,omitempty"`
	CategoryColor *string `json:"category_color,omitempty"`
	CategoryIcon  *string `json:"category_icon,omitempty"`
}

// CashFlowResponse represents the cash flow report.
type CashFlowResponse struct {
	Period       BreakdownPeriodResponse       `json:"period"`
	Summary      CashFlowSummaryResponse       `json:"summary"`
	Transactions []CashFlowTransactionResponse `json:"transactions"`
	Pagination   CashFlowPaginationResponse    `json:"pagination"`
}

// CashFlowSummaryResponse represents the cash flow totals for the period.
type CashFlowSummaryResponse struct {
	TotalIncome      string `json:"total_income"`
	TotalExpenses    string `json:"total_expenses"`
	Balance          string `json:"balance"`
	TransactionCount int    `json:"transaction_count"`
}

// CashFlowPaginationResponse represents pagination information for the listing.
type CashFlowPaginationResponse struct {
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
}

// DataRangeResponse represents the date boundaries of the user's history.
type DataRangeResponse struct {
	OldestDate        *string `json:"oldest_date"`
	NewestDate        *string `json:"newest_date"`
	TotalTransactions int     `json:"total_transactions"`
	HasData           bool    `json:"has_data"`
}

// ToTrendsResponse converts a GetTrendsOutput to its response DTO.
func ToTrendsResponse(output *reports.GetTrendsOutput) TrendsResponse {
	trends := make([]TrendPointResponse, len(output.Trends))
	for i, point := range output.Trends {
		trends[i] = TrendPointResponse{
			Date:             point.Date.Format("2006-01-02"),
			PeriodLabel:      point.PeriodLabel,
			Income:           point.Income.String(),
			Expenses:         point.Expenses.String(),
			Balance:          point.Balance.String(),
			TransactionCount: point.TransactionCount,
		}
	}
	return TrendsResponse{
		Period: TrendsPeriodResponse{
			StartDate:   output.Period.StartDate.Format("2006-01-02"),
			EndDate:     output.Period.EndDate.Format("2006-01-02"),
			Granularity: string(output.Period.Granularity),
		},
		Trends: trends,
	}
}

// ToCategoryBreakdownResponse converts a GetCategoryBreakdownOutput to its
// response DTO.
func ToCategoryBreakdownResponse(output *reports.GetCategoryBreakdownOutput) CategoryBreakdownResponse {
	categories := make([]CategoryBreakdownItemResponse, len(output.Categories))
	for i, item := range output.Categories {
		categories[i] = CategoryBreakdownItemResponse{
			CategoryID:       item.CategoryID,
			CategoryName:     item.CategoryName,
			CategoryColor:    item.CategoryColor,
			CategoryIcon:     item.CategoryIcon,
			Amount:           item.Amount.String(),
			Percentage:       item.Percentage,
			TransactionCount: item.TransactionCount,
		}
	}
	return CategoryBreakdownResponse{
		Period: BreakdownPeriodResponse{
			StartDate:   output.Period.StartDate.Format("2006-01-02"),
			EndDate:     output.Period.EndDate.Format("2006-01-02"),
			PeriodLabel: output.Period.PeriodLabel,
		},
		TotalExpenses: output.TotalExpenses.String(),
		Categories:    categories,
	}
}

// ToCategoryTrendsResponse converts a GetCategoryTrendsOutput to its
// response DTO.
func ToCategoryTrendsResponse(output *reports.GetCategoryTrendsOutput) CategoryTrendsResponse {
	categories := make([]CategoryInfoResponse, len(output.Categories))
	for i, info := range output.Categories {
		categories[i] = CategoryInfoResponse{
			ID:          info.ID.String(),
			Name:        info.Name,
			Color:       info.Color,
			TotalAmount: info.TotalAmount.String(),
			IsOthers:    info.IsOthers,
		}
	}

	trends := make([]TrendDataPointResponse, len(output.Trends))
	for i, point := range output.Trends {
		amounts := make([]CategoryAmountResponse, len(point.Amounts))
		for j, amount := range point.Amounts {
			amounts[j] = CategoryAmountResponse{
				CategoryID: amount.CategoryID.String(),
				Amount:     amount.Amount.String(),
			}
		}
		trends[i] = TrendDataPointResponse{
			Date:        point.Date.Format("2006-01-02"),
			PeriodLabel: point.PeriodLabel,
			Amounts:     amounts,
		}
	}

	return CategoryTrendsResponse{
		Period: TrendsPeriodResponse{
			StartDate:   output.Period.StartDate.Format("2006-01-02"),
			EndDate:     output.Period.EndDate.Format("2006-01-02"),
			Granularity: string(output.Period.Granularity),
		},
		Categories: categories,
		Trends:     trends,
	}
}

// ToCashFlowResponse converts a GetCashFlowOutput to its response DTO.
func ToCashFlowResponse(output *reports.GetCashFlowOutput) CashFlowResponse {
	transactions := make([]CashFlowTransactionResponse, len(output.Transactions))
	for i, txn := range output.Transactions {
		transactions[i] = CashFlowTransactionResponse{
			ID:            txn.ID,
			Description:   txn.Description,
			Amount:        txn.Amount.String(),
			Date:          txn.Date.Format("2006-01-02"),
			CategoryID:    txn.CategoryID,
			CategoryName:  txn.CategoryName,
			CategoryColor: txn.CategoryColor,
			CategoryIcon:  txn.CategoryIcon,
		}
	}
	return CashFlowResponse{
		Period: BreakdownPeriodResponse{
			StartDate:   output.Period.StartDate.Format("2006-01-02"),
			EndDate:     output.Period.EndDate.Format("2006-01-02"),
			PeriodLabel: output.Period.PeriodLabel,
		},
		Summary: CashFlowSummaryResponse{
			TotalIncome:      output.Summary.TotalIncome.String(),
			TotalExpenses:    output.Summary.TotalExpenses.String(),
			Balance:          output.Summary.Balance.String(),
			TransactionCount: output.Summary.TransactionCount,
		},
		Transactions: transactions,
		Pagination: CashFlowPaginationResponse{
			Total:   output.Pagination.Total,
			Limit:   output.Pagination.Limit,
			Offset:  output.Pagination.Offset,
			HasMore: output.Pagination.HasMore,
		},
	}
}

// ToDataRangeResponse converts a GetDataRangeOutput to its response DTO.
func ToDataRangeResponse(output *reports.GetDataRangeOutput) DataRangeResponse {
	response := DataRangeResponse{
		TotalTransactions: output.TotalTransactions,
		HasData:           output.HasData,
	}
	response.OldestDate = formatOptionalDate(output.OldestDate)
	response.NewestDate = formatOptionalDate(output.NewestDate)
	return response
}

func formatOptionalDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.Format("2006-01-02")
	return &formatted
}
