// Package plaidapi implements the bank aggregator client over Plaid's REST API.
package plaidapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/isakbosman/manna/config"
	"github.com/isakbosman/manna/internal/application/adapter"
	domainErr "github.com/isakbosman/manna/internal/domain/error"
)

// Environment base URLs.
var environmentURLs = map[string]string{
	"sandbox":     "https://sandbox.plaid.com",
	"development": "https://development.plaid.com",
	"production":  "https://production.plaid.com",
}

// Client calls the Plaid REST API. All endpoints are JSON POSTs with the
// client credentials embedded in the request body.
type Client struct {
	clientID   string
	secret     string
	baseURL    string
	webhookURL string
	httpClient *http.Client
}

// NewClient creates a Plaid API client from configuration.
func NewClient(cfg *config.PlaidConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = environmentURLs[cfg.Environment]
		if baseURL == "" {
			baseURL = environmentURLs["sandbox"]
		}
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		clientID:   cfg.ClientID,
		secret:     cfg.Secret,
		baseURL:    baseURL,
		webhookURL: cfg.WebhookURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// CreateLinkToken implements adapter.PlaidClient.
func (c *Client) CreateLinkToken(ctx context.Context, userID string) (string, error) {
	req := linkTokenCreateRequest{
		ClientName:   "Manna",
		Language:     "en",
		CountryCodes: []string{"US"},
		User:         linkTokenUser{ClientUserID: userID},
		Products:     []string{"transactions"},
		Webhook:      c.webhookURL,
	}

	var resp linkTokenCreateResponse
	if err := c.post(ctx, "/link/token/create", req, &resp); err != nil {
		return "", err
	}
	return resp.LinkToken, nil
}

// ExchangePublicToken implements adapter.PlaidClient.
func (c *Client) ExchangePublicToken(ctx context.Context, publicToken string) (*adapter.ExchangeResult, error) {
	req := publicTokenExchangeRequest{PublicToken: publicToken}

	var resp publicTokenExchangeResponse
	if err := c.post(ctx, "/item/public_token/exchange", req, &resp); err != nil {
		return nil, err
	}
	return &adapter.ExchangeResult{
		AccessToken: resp.AccessToken,
		ItemID:      resp.ItemID,
	}, nil
}

// GetItemInstitution implements adapter.PlaidClient. It resolves the item's
// institution ID and then the institution's display name.
func (c *Client) GetItemInstitution(ctx context.Context, accessToken string) (*adapter.Institution, error) {
	var itemResp itemGetResponse
	if err := c.post(ctx, "/item/get", accessTokenRequest{AccessToken: accessToken}, &itemResp); err != nil {
		return nil, err
	}
	if itemResp.Item.InstitutionID == "" {
		return &adapter.Institution{}, nil
	}

	instReq := institutionsGetByIDRequest{
		InstitutionID: itemResp.Item.InstitutionID,
		CountryCodes:  []string{"US"},
	}
	var instResp institutionsGetByIDResponse
	if err := c.post(ctx, "/institutions/get_by_id", instReq, &instResp); err != nil {
		// Name resolution failing should not block linking.
		slog.Warn("Failed to resolve institution name", "institution_id", itemResp.Item.InstitutionID, "error", err)
		return &adapter.Institution{ID: itemResp.Item.InstitutionID}, nil
	}

	return &adapter.Institution{
		ID:   itemResp.Item.InstitutionID,
		Name: instResp.Institution.Name,
	}, nil
}

// GetAccounts implements adapter.PlaidClient.
func (c *Client) GetAccounts(ctx context.Context, accessToken string) ([]adapter.PlaidAccount, error) {
	var resp accountsGetResponse
	if err := c.post(ctx, "/accounts/get", accessTokenRequest{AccessToken: accessToken}, &resp); err != nil {
		return nil, err
	}

	accounts := make([]adapter.PlaidAccount, 0, len(resp.Accounts))
	for _, a := range resp.Accounts {
		accounts = append(accounts, a.toAdapter())
	}
	return accounts, nil
}

// SyncTransactions implements adapter.PlaidClient.
func (c *Client) SyncTransactions(ctx context.Context, accessToken, cursor string) (*adapter.SyncPage, error) {
	req := transactionsSyncRequest{
		AccessToken: accessToken,
		Cursor:      cursor,
		Count:       500,
	}

	var resp transactionsSyncResponse
	if err := c.post(ctx, "/transactions/sync", req, &resp); err != nil {
		return nil, err
	}

	page := &adapter.SyncPage{
		NextCursor: resp.NextCursor,
		HasMore:    resp.HasMore,
	}
	for _, tx := range resp.Added {
		converted, err := tx.toAdapter()
		if err != nil {
			return nil, err
		}
		page.Added = append(page.Added, converted)
	}
	for _, tx := range resp.Modified {
		converted, err := tx.toAdapter()
		if err != nil {
			return nil, err
		}
		page.Modified = append(page.Modified, converted)
	}
	for _, removed := range resp.Removed {
		page.Removed = append(page.Removed, removed.TransactionID)
	}
	return page, nil
}

// RemoveItem implements adapter.PlaidClient.
func (c *Client) RemoveItem(ctx context.Context, accessToken string) error {
	var resp struct {
		RequestID string `json:"request_id"`
	}
	return c.post(ctx, "/item/remove", accessTokenRequest{AccessToken: accessToken}, &resp)
}

// post sends a JSON request with the client credentials injected and decodes
// the response, translating Plaid error payloads into domain errors.
func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	// Credentials go in the body alongside the endpoint-specific fields.
	var merged map[string]json.RawMessage
	if err := json.Unmarshal(payload, &merged); err != nil {
		return fmt.Errorf("failed to merge credentials: %w", err)
	}
	merged["client_id"] = rawString(c.clientID)
	merged["secret"] = rawString(c.secret)
	payload, err = json.Marshal(merged)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domainErr.NewPlaidError(domainErr.ErrCodePlaidUnavailable, domainErr.ErrPlaidUnavailable.Error(), err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return domainErr.NewPlaidError(domainErr.ErrCodePlaidUnavailable, domainErr.ErrPlaidUnavailable.Error(), err)
	}

	if resp.StatusCode != http.StatusOK {
		return c.apiError(path, resp.StatusCode, data)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	return nil
}

// apiError maps a Plaid error payload to a domain error.
func (c *Client) apiError(path string, status int, data []byte) error {
	var apiErr apiErrorResponse
	if err := json.Unmarshal(data, &apiErr); err != nil || apiErr.ErrorCode == "" {
		return domainErr.NewPlaidError(
			domainErr.ErrCodePlaidUnavailable,
			fmt.Sprintf("plaid returned status %d for %s", status, path),
			domainErr.ErrPlaidUnavailable,
		)
	}

	slog.Warn("Plaid API error",
		"path", path,
		"status", status,
		"error_type", apiErr.ErrorType,
		"error_code", apiErr.ErrorCode,
	)

	switch apiErr.ErrorCode {
	case "INVALID_PUBLIC_TOKEN":
		return domainErr.NewPlaidError(domainErr.ErrCodeInvalidPublicToken, apiErr.ErrorMessage, domainErr.ErrInvalidPublicToken)
	case "ITEM_LOGIN_REQUIRED":
		return domainErr.NewPlaidError(domainErr.ErrCodeItemLoginRequired, apiErr.ErrorMessage, domainErr.ErrItemLoginRequired)
	default:
		return domainErr.NewPlaidError(
			domainErr.ErrCodePlaidUnavailable,
			fmt.Sprintf("%s: %s", apiErr.ErrorCode, apiErr.ErrorMessage),
			domainErr.ErrPlaidUnavailable,
		)
	}
}

func rawString(s string) json.RawMessage {
	raw, _ := json.Marshal(s)
	return raw
}
