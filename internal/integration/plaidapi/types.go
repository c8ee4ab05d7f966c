package plaidapi

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/isakbosman/manna/internal/application/adapter"
)

// Request and response shapes for the Plaid endpoints we use. Only the fields
// the application reads are declared.

type linkTokenUser struct {
	ClientUserID string `json:"client_user_id"`
}

type linkTokenCreateRequest struct {
	ClientName   string        `json:"client_name"`
	Language     string        `json:"language"`
	CountryCodes []string      `json:"country_codes"`
	User         linkTokenUser `json:"user"`
	Products     []string      `json:"products"`
	Webhook      string        `json:"webhook,omitempty"`
}

type linkTokenCreateResponse struct {
	LinkToken string `json:"link_token"`
	RequestID string `json:"request_id"`
}

type publicTokenExchangeRequest struct {
	PublicToken string `json:"public_token"`
}

type publicTokenExchangeResponse struct {
	AccessToken string `json:"access_token"`
	ItemID      string `json:"item_id"`
	RequestID   string `json:"request_id"`
}

type accessTokenRequest struct {
	AccessToken string `json:"access_token"`
}

type itemGetResponse struct {
	Item struct {
		ItemID        string `json:"item_id"`
		InstitutionID string `json:"institution_id"`
	} `json:"item"`
}

type institutionsGetByIDRequest struct {
	InstitutionID string   `json:"institution_id"`
	CountryCodes  []string `json:"country_codes"`
}

type institutionsGetByIDResponse struct {
	Institution struct {
		Name string `json:"name"`
	} `json:"institution"`
}

type accountBalances struct {
	Current         *float64 `json:"current"`
	Available       *float64 `json:"available"`
	IsoCurrencyCode string   `json:"iso_currency_code"`
}

type accountPayload struct {
	AccountID    string          `json:"account_id"`
	Name         string          `json:"name"`
	OfficialName string          `json:"official_name"`
	Mask         string          `json:"mask"`
	Type         string          `json:"type"`
	Subtype      string          `json:"subtype"`
	Balances     accountBalances `json:"balances"`
}

func (a accountPayload) toAdapter() adapter.PlaidAccount {
	acc := adapter.PlaidAccount{
		PlaidAccountID: a.AccountID,
		Name:           a.Name,
		OfficialName:   a.OfficialName,
		Mask:           a.Mask,
		Type:           a.Type,
		Subtype:        a.Subtype,
		Currency:       a.Balances.IsoCurrencyCode,
	}
	if a.Balances.Current != nil {
		acc.CurrentBalance = decimal.NewFromFloat(*a.Balances.Current)
	}
	if a.Balances.Available != nil {
		acc.AvailableBalance = decimal.NewFromFloat(*a.Balances.Available)
	}
	return acc
}

type accountsGetResponse struct {
	Accounts []accountPayload `json:"accounts"`
}

type transactionsSyncRequest struct {
	AccessToken string `json:"access_token"`
	Cursor      string `json:"cursor,omitempty"`
	Count       int    `json:"count,omitempty"`
}

type transactionPayload struct {
	TransactionID          string   `json:"transaction_id"`
	AccountID              string   `json:"account_id"`
	Date                   string   `json:"date"`
	Name                   string   `json:"name"`
	MerchantName           string   `json:"merchant_name"`
	Amount                 float64  `json:"amount"`
	IsoCurrencyCode        string   `json:"iso_currency_code"`
	Pending                bool     `json:"pending"`
	PersonalFinanceCategory struct {
		Primary string `json:"primary"`
	} `json:"personal_finance_category"`
}

func (t transactionPayload) toAdapter() (adapter.PlaidTransaction, error) {
	date, err := time.Parse("2006-01-02", t.Date)
	if err != nil {
		return adapter.PlaidTransaction{}, fmt.Errorf("failed to parse transaction date %q: %w", t.Date, err)
	}
	return adapter.PlaidTransaction{
		PlaidTransactionID: t.TransactionID,
		PlaidAccountID:     t.AccountID,
		Date:               date,
		Description:        t.Name,
		MerchantName:       t.MerchantName,
		Amount:             decimal.NewFromFloat(t.Amount),
		Currency:           t.IsoCurrencyCode,
		Pending:            t.Pending,
		CategoryHint:       t.PersonalFinanceCategory.Primary,
	}, nil
}

type removedTransaction struct {
	TransactionID string `json:"transaction_id"`
}

type transactionsSyncResponse struct {
	Added      []transactionPayload `json:"added"`
	Modified   []transactionPayload `json:"modified"`
	Removed    []removedTransaction `json:"removed"`
	NextCursor string               `json:"next_cursor"`
	HasMore    bool                 `json:"has_more"`
}

type apiErrorResponse struct {
	ErrorType    string `json:"error_type"`
	ErrorCode    string `json:"error_code"`
	ErrorMessage string `json:"error_message"`
	RequestID    string `json:"request_id"`
}
