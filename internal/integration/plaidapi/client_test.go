package plaidapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/isakbosman/manna/config"
	domainErr "github.com/isakbosman/manna/internal/domain/error"
)

func addedAmount(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(&config.PlaidConfig{
		ClientID: "test-client-id",
		Secret:   "test-secret",
		BaseURL:  server.URL,
		Timeout:  5 * time.Second,
	})
}

func TestClient_CreateLinkToken(t *testing.T) {
	t.Run("should send credentials and user id", func(t *testing.T) {
		var captured map[string]any
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/link/token/create" {
				t.Errorf("expected /link/token/create, got %s", r.URL.Path)
			}
			json.NewDecoder(r.Body).Decode(&captured)
			json.NewEncoder(w).Encode(map[string]string{"link_token": "link-sandbox-abc"})
		})

		token, err := client.CreateLinkToken(context.Background(), "user-123")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if token != "link-sandbox-abc" {
			t.Errorf("expected link-sandbox-abc, got %s", token)
		}
		if captured["client_id"] != "test-client-id" {
			t.Errorf("expected client_id in body, got %v", captured["client_id"])
		}
		if captured["secret"] != "test-secret" {
			t.Errorf("expected secret in body, got %v", captured["secret"])
		}
		user, _ := captured["user"].(map[string]any)
		if user["client_user_id"] != "user-123" {
			t.Errorf("expected client_user_id user-123, got %v", user["client_user_id"])
		}
	})
}

func TestClient_ExchangePublicToken(t *testing.T) {
	t.Run("should return access token and item id", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]string{
				"access_token": "access-sandbox-xyz",
				"item_id":      "item-1",
			})
		})

		result, err := client.ExchangePublicToken(context.Background(), "public-sandbox-token")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.AccessToken != "access-sandbox-xyz" {
			t.Errorf("expected access-sandbox-xyz, got %s", result.AccessToken)
		}
		if result.ItemID != "item-1" {
			t.Errorf("expected item-1, got %s", result.ItemID)
		}
	})

	t.Run("should map INVALID_PUBLIC_TOKEN to domain error", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{
				"error_type":    "INVALID_INPUT",
				"error_code":    "INVALID_PUBLIC_TOKEN",
				"error_message": "provided public token is expired",
			})
		})

		_, err := client.ExchangePublicToken(context.Background(), "stale-token")
		if !errors.Is(err, domainErr.ErrInvalidPublicToken) {
			t.Errorf("expected ErrInvalidPublicToken, got %v", err)
		}
	})
}

func TestClient_SyncTransactions(t *testing.T) {
	t.Run("should convert a sync page", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			var req map[string]any
			json.NewDecoder(r.Body).Decode(&req)
			if req["cursor"] != "cursor-1" {
				t.Errorf("expected cursor-1, got %v", req["cursor"])
			}
			json.NewEncoder(w).Encode(map[string]any{
				"added": []map[string]any{{
					"transaction_id":    "tx-1",
					"account_id":        "acc-1",
					"date":              "2026-08-12",
					"name":              "COFFEE SHOP",
					"merchant_name":     "Coffee Shop",
					"amount":            4.50,
					"iso_currency_code": "USD",
					"pending":           false,
				}},
				"modified":    []map[string]any{},
				"removed":     []map[string]any{{"transaction_id": "tx-gone"}},
				"next_cursor": "cursor-2",
				"has_more":    true,
			})
		})

		page, err := client.SyncTransactions(context.Background(), "access-token", "cursor-1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(page.Added) != 1 {
			t.Fatalf("expected 1 added, got %d", len(page.Added))
		}
		added := page.Added[0]
		if added.PlaidTransactionID != "tx-1" {
			t.Errorf("expected tx-1, got %s", added.PlaidTransactionID)
		}
		if added.Date.Format("2006-01-02") != "2026-08-12" {
			t.Errorf("expected 2026-08-12, got %s", added.Date)
		}
		if !added.Amount.Equal(addedAmount(4.50)) {
			t.Errorf("expected 4.50, got %s", added.Amount)
		}
		if len(page.Removed) != 1 || page.Removed[0] != "tx-gone" {
			t.Errorf("expected removed tx-gone, got %v", page.Removed)
		}
		if page.NextCursor != "cursor-2" || !page.HasMore {
			t.Errorf("expected cursor-2/has_more, got %s/%v", page.NextCursor, page.HasMore)
		}
	})

	t.Run("should fail on malformed dates", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{
				"added": []map[string]any{{
					"transaction_id": "tx-1",
					"account_id":     "acc-1",
					"date":           "12/08/2026",
					"name":           "BAD DATE",
					"amount":         1.0,
				}},
				"next_cursor": "c",
			})
		})

		if _, err := client.SyncTransactions(context.Background(), "access-token", ""); err == nil {
			t.Error("expected error for malformed date")
		}
	})

	t.Run("should map server failures to plaid unavailable", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("upstream exploded"))
		})

		_, err := client.SyncTransactions(context.Background(), "access-token", "")
		if !errors.Is(err, domainErr.ErrPlaidUnavailable) {
			t.Errorf("expected ErrPlaidUnavailable, got %v", err)
		}
	})
}

func TestClient_GetAccounts(t *testing.T) {
	t.Run("should convert balances", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{
				"accounts": []map[string]any{{
					"account_id": "acc-1",
					"name":       "Checking",
					"mask":       "4321",
					"type":       "depository",
					"subtype":    "checking",
					"balances": map[string]any{
						"current":           1250.33,
						"available":         1200.00,
						"iso_currency_code": "USD",
					},
				}},
			})
		})

		accounts, err := client.GetAccounts(context.Background(), "access-token")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(accounts) != 1 {
			t.Fatalf("expected 1 account, got %d", len(accounts))
		}
		if accounts[0].Mask != "4321" {
			t.Errorf("expected mask 4321, got %s", accounts[0].Mask)
		}
		if !accounts[0].CurrentBalance.Equal(addedAmount(1250.33)) {
			t.Errorf("expected 1250.33, got %s", accounts[0].CurrentBalance)
		}
	})
}
