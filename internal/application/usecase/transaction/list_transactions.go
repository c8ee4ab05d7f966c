// Package transaction contains transaction-related use cases.
package transaction

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/isakbosman/manna/internal/application/adapter"
	"github.com/isakbosman/manna/internal/domain/entity"
)

// ListTransactionsInput represents the input for listing transactions.
type ListTransactionsInput struct {
	UserID        uuid.UUID
	AccountID     *uuid.UUID
	StartDate     *time.Time
	EndDate       *time.Time
	CategoryIDs   []uuid.UUID
	Type          *entity.TransactionType
	Source        *entity.TransactionSource
	Search        string
	Uncategorized bool
	Page          int
	Limit         int
}

// TransactionOutput represents a single transaction in the output.
type TransactionOutput struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	AccountID    *uuid.UUID
	Date         time.Time
	Description  string
	MerchantName string
	Amount       decimal.Decimal
	Type         entity.TransactionType
	CategoryID   *uuid.UUID
	Category     *CategoryOutput
	Notes        string
	Pending      bool
	Source       entity.TransactionSource
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CategoryOutput represents category information in transaction output.
type CategoryOutput struct {
	ID    uuid.UUID
	Name  string
	Color string
	Icon  string
	Type  entity.CategoryType
}

// PaginationOutput represents pagination information in the output.
type PaginationOutput struct {
	Page       int
	Limit      int
	Total      int64
	TotalPages int
}

// TotalsOutput represents aggregated totals in the output.
type TotalsOutput struct {
	IncomeTotal  decimal.Decimal
	ExpenseTotal decimal.Decimal
	NetTotal     decimal.Decimal
}

// ListTransactionsOutput represents the output of listing transactions.
type ListTransactionsOutput struct {
	Transactions []*TransactionOutput
	Pagination   PaginationOutput
	Totals       TotalsOutput
}

// ListTransactionsUseCase handles listing transactions logic.
type ListTransactionsUseCase struct {
	transactionRepo adapter.TransactionRepository
}

// NewListTransactionsUseCase creates a new ListTransactionsUseCase instance.
func NewListTransactionsUseCase(transactionRepo adapter.TransactionRepository) *ListTransactionsUseCase {
	return &ListTransactionsUseCase{
		transactionRepo: transactionRepo,
	}
}

// transactionToOutput converts a transaction with category to the output shape.
func transactionToOutput(txnWithCat *entity.TransactionWithCategory) *TransactionOutput {
	txnOutput := &TransactionOutput{
		ID:           txnWithCat.Transaction.ID,
		UserID:       txnWithCat.Transaction.UserID,
		AccountID:    txnWithCat.Transaction.AccountID,
		Date:         txnWithCat.Transaction.Date,
		Description:  txnWithCat.Transaction.Description,
		MerchantName: txnWithCat.Transaction.MerchantName,
		Amount:       txnWithCat.Transaction.Amount,
		Type:         txnWithCat.Transaction.Type,
		CategoryID:   txnWithCat.Transaction.CategoryID,
		Notes:        txnWithCat.Transaction.Notes,
		Pending:      txnWithCat.Transaction.Pending,
		Source:       txnWithCat.Transaction.Source,
		CreatedAt:    txnWithCat.Transaction.CreatedAt,
		UpdatedAt:    txnWithCat.Transaction.UpdatedAt,
	}
	if txnWithCat.Category != nil {
		txnOutput.Category = &CategoryOutput{
			ID:    txnWithCat.Category.ID,
			Name:  txnWithCat.Category.Name,
			Color: txnWithCat.Category.Color,
			Icon:  txnWithCat.Category.Icon,
			Type:  txnWithCat.Category.Type,
		}
	}
	return txnOutput
}

// Execute performs the transaction listing.
func (uc *ListTransactionsUseCase) Execute(ctx context.Context, input ListTransactionsInput) (*ListTransactionsOutput, error) {
	// Set default pagination values
	page := input.Page
	if page < 1 {
		page = 1
	}
	limit := input.Limit
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	// Build filter
	filter := adapter.TransactionFilter{
		UserID:        input.UserID,
		AccountID:     input.AccountID,
		StartDate:     input.StartDate,
		EndDate:       input.EndDate,
		CategoryIDs:   input.CategoryIDs,
		Type:          input.Type,
		Source:        input.Source,
		Search:        input.Search,
		Uncategorized: input.Uncategorized,
	}

	// Build pagination
	pagination := adapter.TransactionPagination{
		Page:  page,
		Limit: limit,
	}

	// Fetch transactions
	result, err := uc.transactionRepo.FindByFilter(ctx, filter, pagination)
	if err != nil {
		return nil, err
	}

	// Get totals
	totals, err := uc.transactionRepo.GetTotals(ctx, filter)
	if err != nil {
		// Log error but continue without totals
		totals = &entity.TransactionTotals{}
	}

	// Build output
	output := &ListTransactionsOutput{
		Transactions: make([]*TransactionOutput, len(result.Transactions)),
		Pagination: PaginationOutput{
			Page:       result.Page,
			Limit:      result.Limit,
			Total:      result.Total,
			TotalPages: result.TotalPages,
		},
		Totals: TotalsOutput{
			IncomeTotal:  totals.IncomeTotal,
			ExpenseTotal: totals.ExpenseTotal,
			NetTotal:     totals.NetTotal,
		},
	}

	for i, txnWithCat := range result.Transactions {
		output.Transactions[i] = transactionToOutput(txnWithCat)
	}

	return output, nil
}
