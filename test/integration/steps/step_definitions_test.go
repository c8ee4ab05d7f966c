package steps

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cucumber/godog"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/isakbosman/manna/config"
	"github.com/isakbosman/manna/internal/application/adapter"
	"github.com/isakbosman/manna/internal/domain/entity"
	"github.com/isakbosman/manna/internal/infra/dependency"
	"github.com/isakbosman/manna/internal/integration/adapters"
	"github.com/isakbosman/manna/internal/integration/persistence/model"
	"github.com/isakbosman/manna/test/integration/mock"
)

const testJWTSecret = "test-jwt-secret-key-for-testing-purposes"

var tags string

func init() {
	flag.StringVar(&tags, "scenarios", "", "tags to run")
}

func TestFeatures(t *testing.T) {
	flag.Parse()

	suite := godog.TestSuite{
		ScenarioInitializer: func(s *godog.ScenarioContext) {
			InitializeScenario(s)
		},
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"../features"},
			Tags:     tags,
			Strict:   true,
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

type testContext struct {
	uri        string
	headers    map[string]string
	client     *http.Client
	response   *response
	db         *mock.Db
	serverPort int

	accessToken  string
	refreshToken string
	resetToken   string
	expiredToken string

	currentUserID     uuid.UUID
	currentCategoryID uuid.UUID
	currentAccountID  uuid.UUID
	currentRuleID     uuid.UUID
	currentItemID     uuid.UUID
	suggestionID      uuid.UUID
	categoryIDs       map[string]uuid.UUID

	manualTransactionID uuid.UUID
	bankTransactionID   uuid.UUID
	transactionIDs      []uuid.UUID
	lastTransactionID   uuid.UUID
	rulePriority        int
}

type response struct {
	status int
	body   any
	err    error
}

var serverInit sync.Once
var testDB *mock.Db
var testServerPort int
var portInit sync.Once
var bankAPI *mock.ApiMock
var testCipher adapter.SecretCipher

// testEncryptionKey is a base64-encoded 256-bit key used by the envelope
// cipher in tests.
var testEncryptionKey = base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{0x42}, 32))

func initializePort() {
	portInit.Do(func() {
		testServerPort = findAvailablePort()
		_ = os.Setenv("SERVER_PORT", strconv.Itoa(testServerPort))
		_ = os.Setenv("ENV", "test")
	})
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	initializePort()

	test := &testContext{
		uri:        fmt.Sprintf("http://localhost:%d", testServerPort),
		client:     &http.Client{Timeout: 10 * time.Second},
		serverPort: testServerPort,
		db: mock.NewDb("manna", map[string]any{
			"users":                 &model.UserModel{},
			"refresh_tokens":        &model.RefreshTokenModel{},
			"password_reset_tokens": &model.PasswordResetTokenModel{},
			"accounts":              &model.AccountModel{},
			"categories":            &model.CategoryModel{},
			"category_rules":        &model.CategoryRuleModel{},
			"transactions":          &model.TransactionModel{},
			"plaid_items":           &model.PlaidItemModel{},
			"category_suggestions":  &model.CategorySuggestionModel{},
			"reconciliation_links":  &model.ReconciliationLinkModel{},
			"journal_entries":       &model.JournalEntryModel{},
			"email_queue":           &model.EmailQueueModel{},
		}),
	}

	testDB = test.db

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		test.before()
		return ctx, nil
	})

	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		return nil, nil
	})

	// Background steps
	ctx.Given(`^the API server is running$`, test.theAPIServerIsRunning)

	// User setup steps
	ctx.Given(`^a user exists with email "([^"]*)"$`, test.aUserExistsWithEmail)
	ctx.Given(`^a user exists with email "([^"]*)" and password "([^"]*)"$`, test.aUserExistsWithEmailAndPassword)
	ctx.Given(`^the user is logged in with valid tokens$`, test.theUserIsLoggedInWithValidTokens)
	ctx.Given(`^a password reset token exists for "([^"]*)"$`, test.aPasswordResetTokenExistsFor)
	ctx.Given(`^an expired password reset token exists$`, test.anExpiredPasswordResetTokenExists)

	// Domain setup steps
	ctx.Given(`^a category exists with name "([^"]*)" and type "([^"]*)"$`, test.aCategoryExistsWithNameAndType)
	ctx.Given(`^an account exists with name "([^"]*)" and type "([^"]*)"$`, test.anAccountExistsWithNameAndType)
	ctx.Given(`^a category rule exists with pattern "([^"]*)" for category "([^"]*)"$`, test.aCategoryRuleExistsWithPatternForCategory)
	ctx.Given(`^a manual transaction exists with description "([^"]*)", amount "([^"]*)" and date "([^"]*)"$`, test.aManualTransactionExists)
	ctx.Given(`^a bank transaction exists with description "([^"]*)", amount "([^"]*)" and date "([^"]*)"$`, test.aBankTransactionExists)
	ctx.Given(`^an uncategorized transaction exists with description "([^"]*)" and amount "([^"]*)"$`, test.anUncategorizedTransactionExists)
	ctx.Given(`^a pending suggestion exists for the transaction with category "([^"]*)"$`, test.aPendingSuggestionExistsForTheTransaction)
	ctx.Given(`^a linked bank item exists for institution "([^"]*)"$`, test.aLinkedBankItemExistsForInstitution)
	ctx.Given(`^the bank API responds to "([^"]*)" with status (\d+) and body:$`, test.theBankAPIRespondsWith)

	// Header steps
	ctx.Given(`^the header is empty$`, test.theHeaderIsEmpty)
	ctx.Given(`^the header contains the key "([^"]*)" with "([^"]*)"$`, test.theHeaderContainsTheKeyWith)

	// Request steps. Registered keyword-free because scenarios also use
	// them as Given fixtures.
	ctx.Step(`^I send a "([^"]*)" request to "([^"]*)"$`, test.iSendARequestTo)
	ctx.Step(`^I send a "([^"]*)" request to "([^"]*)" with body:$`, test.iSendARequestToWithBody)

	// Response assertion steps
	ctx.Then(`^the response status should be (\d+)$`, test.theResponseStatusShouldBe)
	ctx.Then(`^the response should be JSON$`, test.theResponseShouldBeJSON)
	ctx.Then(`^the response should contain "([^"]*)"$`, test.theResponseShouldContain)
	ctx.Then(`^the response field "([^"]*)" should be "([^"]*)"$`, test.theResponseFieldShouldBe)
	ctx.Then(`^the response field "([^"]*)" should exist$`, test.theResponseFieldShouldExist)

	// Database assertion steps
	ctx.Then(`^the db should contain (\d+) objects in the "([^"]*)" table$`, test.theDbShouldContainObjectsInTheTable)
	ctx.Then(`^the db should contain (\d+) objects in "([^"]*)" with the values$`, test.theDbShouldContainObjectsInWithTheValues)
}

func findAvailablePort() int {
	listener, err := net.Listen("tcp", ":0")
	if err != nil {
		panic(err)
	}
	defer listener.Close()
	return listener.Addr().(*net.TCPAddr).Port
}

func (t *testContext) before() {
	t.headers = make(map[string]string)
	t.accessToken = ""
	t.refreshToken = ""
	t.resetToken = ""
	t.expiredToken = ""
	t.currentUserID = uuid.Nil
	t.currentCategoryID = uuid.Nil
	t.currentAccountID = uuid.Nil
	t.currentRuleID = uuid.Nil
	t.currentItemID = uuid.Nil
	t.suggestionID = uuid.Nil
	t.categoryIDs = make(map[string]uuid.UUID)
	t.manualTransactionID = uuid.Nil
	t.bankTransactionID = uuid.Nil
	t.transactionIDs = nil
	t.lastTransactionID = uuid.Nil
	t.rulePriority = 0

	if t.db != nil {
		_ = t.db.ClearDB()
	}
}

func (t *testContext) startServer() {
	serverInit.Do(func() {
		bankAPI = mock.NewApiServer()
		bankAPI.Start()

		cipher, err := adapters.NewEnvelopeCipher(testEncryptionKey, "", "")
		if err != nil {
			panic(fmt.Sprintf("failed to create test cipher: %v", err))
		}
		testCipher = cipher

		go func() {
			gin.SetMode(gin.TestMode)

			cfg := config.Load()
			cfg.Server.Environment = "test"
			cfg.JWT.Secret = testJWTSecret
			cfg.Encryption.Key = testEncryptionKey
			cfg.Email.WorkerEnabled = false
			cfg.Plaid.ClientID = "test-client-id"
			cfg.Plaid.Secret = "test-secret"
			cfg.Plaid.BaseURL = bankAPI.GetUrl()
			cfg.Sync.LockTTL = 5 * time.Second
			cfg.Sync.LockWait = 1 * time.Second

			injector, err := dependency.NewInjector(cfg, testDB.DbConn, mock.NewRedis())
			if err != nil {
				panic(fmt.Sprintf("failed to wire test dependencies: %v", err))
			}

			engine := injector.Router.Setup("test")

			addr := fmt.Sprintf(":%d", testServerPort)
			server := &http.Server{
				Addr:    addr,
				Handler: engine,
			}

			_ = server.ListenAndServe()
		}()
	})

	// Wait for server to be ready
	for i := 0; i < 50; i++ {
		resp, err := http.Get(t.uri + "/health")
		if err == nil && resp.StatusCode == http.StatusOK {
			resp.Body.Close()
			return
		}
		time.Sleep(100 * time.Millisecond)
	}
}

func (t *testContext) theAPIServerIsRunning() error {
	t.startServer()
	return nil
}

func (t *testContext) aUserExistsWithEmail(email string) error {
	return t.createUser(email, "DefaultPass123!", "Test User")
}

func (t *testContext) aUserExistsWithEmailAndPassword(email, password string) error {
	return t.createUser(email, password, "Test User")
}

func (t *testContext) createUser(email, password, name string) error {
	userID := uuid.New()
	t.currentUserID = userID

	user := &model.UserModel{
		ID:                 userID,
		Email:              email,
		Name:               name,
		PasswordHash:       hashPassword(password),
		EmailNotifications: true,
		TermsAcceptedAt:    time.Now(),
		CreatedAt:          time.Now(),
		UpdatedAt:          time.Now(),
	}

	result := t.db.DbConn.Create(user)
	return result.Error
}

func hashPassword(password string) string {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		panic(fmt.Sprintf("failed to hash password: %v", err))
	}
	return string(hashedBytes)
}

func (t *testContext) theUserIsLoggedInWithValidTokens() error {
	now := time.Now().UTC()

	accessTokenString, err := t.signToken("access", now, now.Add(15*time.Minute))
	if err != nil {
		return fmt.Errorf("failed to generate access token: %w", err)
	}
	t.accessToken = accessTokenString

	refreshTokenString, err := t.signToken("refresh", now, now.Add(7*24*time.Hour))
	if err != nil {
		return fmt.Errorf("failed to generate refresh token: %w", err)
	}
	t.refreshToken = refreshTokenString

	// Store refresh token in database
	refreshTokenModel := &model.RefreshTokenModel{
		ID:          uuid.New(),
		Token:       t.refreshToken,
		UserID:      t.currentUserID,
		Invalidated: false,
		ExpiresAt:   now.Add(7 * 24 * time.Hour),
		CreatedAt:   now,
	}

	result := t.db.DbConn.Create(refreshTokenModel)
	return result.Error
}

func (t *testContext) signToken(tokenType string, now, expiresAt time.Time) (string, error) {
	claims := jwt.MapClaims{
		"user_id":    t.currentUserID.String(),
		"email":      "test@example.com",
		"token_type": tokenType,
		"exp":        jwt.NewNumericDate(expiresAt),
		"iat":        jwt.NewNumericDate(now),
		"nbf":        jwt.NewNumericDate(now),
		"iss":        "manna",
		"sub":        t.currentUserID.String(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(testJWTSecret))
}

func (t *testContext) aPasswordResetTokenExistsFor(email string) error {
	t.resetToken = fmt.Sprintf("test-reset-token-%s", uuid.New().String())

	var user model.UserModel
	if err := t.db.DbConn.Where("email = ?", email).First(&user).Error; err != nil {
		return fmt.Errorf("user not found: %w", err)
	}

	resetTokenModel := &model.PasswordResetTokenModel{
		ID:        uuid.New(),
		Token:     t.resetToken,
		UserID:    user.ID,
		Email:     email,
		Used:      false,
		ExpiresAt: time.Now().Add(1 * time.Hour),
		CreatedAt: time.Now(),
	}

	result := t.db.DbConn.Create(resetTokenModel)
	return result.Error
}

func (t *testContext) anExpiredPasswordResetTokenExists() error {
	t.expiredToken = fmt.Sprintf("expired-reset-token-%s", uuid.New().String())

	resetTokenModel := &model.PasswordResetTokenModel{
		ID:        uuid.New(),
		Token:     t.expiredToken,
		UserID:    uuid.New(),
		Email:     "expired@example.com",
		Used:      false,
		ExpiresAt: time.Now().Add(-1 * time.Hour),
		CreatedAt: time.Now().Add(-2 * time.Hour),
	}

	result := t.db.DbConn.Create(resetTokenModel)
	return result.Error
}

func (t *testContext) aCategoryExistsWithNameAndType(name, categoryType string) error {
	categoryID := uuid.New()
	t.currentCategoryID = categoryID
	t.categoryIDs[name] = categoryID

	now := time.Now().UTC()
	categoryModel := &model.CategoryModel{
		ID:        categoryID,
		UserID:    t.currentUserID,
		Name:      name,
		Color:     "#6366F1",
		Icon:      "tag",
		Type:      categoryType,
		CreatedAt: now,
		UpdatedAt: now,
	}

	result := t.db.DbConn.Create(categoryModel)
	return result.Error
}

func (t *testContext) anAccountExistsWithNameAndType(name, accountType string) error {
	accountID := uuid.New()
	t.currentAccountID = accountID

	now := time.Now().UTC()
	accountModel := &model.AccountModel{
		ID:             accountID,
		UserID:         t.currentUserID,
		Name:           name,
		Type:           accountType,
		CurrentBalance: decimal.NewFromInt(0),
		Currency:       "USD",
		Source:         string(entity.AccountSourceManual),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	result := t.db.DbConn.Create(accountModel)
	return result.Error
}

func (t *testContext) aCategoryRuleExistsWithPatternForCategory(pattern, categoryName string) error {
	categoryID, ok := t.categoryIDs[categoryName]
	if !ok {
		return fmt.Errorf("category '%s' has not been created", categoryName)
	}

	ruleID := uuid.New()
	t.currentRuleID = ruleID
	t.rulePriority++

	now := time.Now().UTC()
	ruleModel := &model.CategoryRuleModel{
		ID:         ruleID,
		UserID:     t.currentUserID,
		Pattern:    pattern,
		CategoryID: categoryID,
		Priority:   t.rulePriority,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	result := t.db.DbConn.Create(ruleModel)
	return result.Error
}

func (t *testContext) aManualTransactionExists(description, amount, date string) error {
	return t.createTransaction(description, amount, date, entity.TransactionSourceManual)
}

func (t *testContext) aBankTransactionExists(description, amount, date string) error {
	return t.createTransaction(description, amount, date, entity.TransactionSourcePlaid)
}

func (t *testContext) createTransaction(description, amountStr, dateStr string, source entity.TransactionSource) error {
	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return fmt.Errorf("invalid amount '%s': %w", amountStr, err)
	}
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return fmt.Errorf("invalid date '%s': %w", dateStr, err)
	}

	transactionID := uuid.New()
	t.lastTransactionID = transactionID
	t.transactionIDs = append(t.transactionIDs, transactionID)
	switch source {
	case entity.TransactionSourceManual:
		t.manualTransactionID = transactionID
	case entity.TransactionSourcePlaid:
		t.bankTransactionID = transactionID
	}

	now := time.Now().UTC()
	transactionModel := &model.TransactionModel{
		ID:          transactionID,
		UserID:      t.currentUserID,
		Date:        date,
		Description: description,
		Amount:      entity.NormalizeAmount(amount, entity.TransactionTypeExpense),
		Type:        string(entity.TransactionTypeExpense),
		Source:      string(source),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if source == entity.TransactionSourcePlaid {
		transactionModel.PlaidTransactionID = "plaid-txn-" + transactionID.String()
	}

	result := t.db.DbConn.Create(transactionModel)
	return result.Error
}

func (t *testContext) anUncategorizedTransactionExists(description, amount string) error {
	return t.createTransaction(description, amount, time.Now().UTC().Format("2006-01-02"), entity.TransactionSourceManual)
}

func (t *testContext) aPendingSuggestionExistsForTheTransaction(categoryName string) error {
	categoryID, ok := t.categoryIDs[categoryName]
	if !ok {
		return fmt.Errorf("category '%s' has not been created", categoryName)
	}
	if t.lastTransactionID == uuid.Nil {
		return errors.New("no transaction has been created")
	}

	suggestionID := uuid.New()
	t.suggestionID = suggestionID

	now := time.Now().UTC()
	suggestionModel := &model.CategorySuggestionModel{
		ID:                  suggestionID,
		UserID:              t.currentUserID,
		TransactionID:       t.lastTransactionID,
		SuggestedCategoryID: &categoryID,
		MatchType:           string(entity.MatchTypeContains),
		MatchKeyword:        "coffee",
		Confidence:          0.9,
		Source:              string(entity.SuggestionSourceRule),
		Status:              string(entity.SuggestionStatusPending),
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	result := t.db.DbConn.Create(suggestionModel)
	return result.Error
}

func (t *testContext) aLinkedBankItemExistsForInstitution(institutionName string) error {
	encryptedToken, err := testCipher.Encrypt("access-sandbox-" + uuid.New().String())
	if err != nil {
		return fmt.Errorf("failed to encrypt access token: %w", err)
	}

	itemID := uuid.New()
	t.currentItemID = itemID

	now := time.Now().UTC()
	itemModel := &model.PlaidItemModel{
		ID:                   itemID,
		UserID:               t.currentUserID,
		PlaidItemID:          "item-" + itemID.String(),
		InstitutionID:        "ins_1",
		InstitutionName:      institutionName,
		EncryptedAccessToken: encryptedToken,
		Version:              1,
		Status:               string(entity.ItemStatusActive),
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	result := t.db.DbConn.Create(itemModel)
	return result.Error
}

func (t *testContext) theBankAPIRespondsWith(path string, status int, body *godog.DocString) error {
	var response map[string]any
	if err := json.Unmarshal([]byte(body.Content), &response); err != nil {
		return fmt.Errorf("invalid stub response JSON: %w", err)
	}
	bankAPI.SetResponse(-1, http.MethodPost, path, status, response)
	return nil
}

func (t *testContext) theHeaderIsEmpty() error {
	t.headers = make(map[string]string)
	t.accessToken = "" // Clear access token to simulate unauthenticated request
	return nil
}

func (t *testContext) theHeaderContainsTheKeyWith(key, value string) error {
	t.headers[key] = value
	return nil
}

func (t *testContext) iSendARequestTo(method, path string) error {
	path = t.replacePlaceholders(path)
	return t.executeRequest(method, path, nil)
}

func (t *testContext) iSendARequestToWithBody(method, path string, body *godog.DocString) error {
	path = t.replacePlaceholders(path)

	var payload []byte
	if body != nil && body.Content != "" {
		content := t.replacePlaceholders(body.Content)
		payload = []byte(content)
	}
	return t.executeRequest(method, path, payload)
}

func (t *testContext) replacePlaceholders(content string) string {
	content = strings.ReplaceAll(content, "{{refresh_token}}", t.refreshToken)
	content = strings.ReplaceAll(content, "{{access_token}}", t.accessToken)
	content = strings.ReplaceAll(content, "{{reset_token}}", t.resetToken)
	content = strings.ReplaceAll(content, "{{expired_reset_token}}", t.expiredToken)
	content = strings.ReplaceAll(content, "{{category_id}}", t.currentCategoryID.String())
	content = strings.ReplaceAll(content, "{{account_id}}", t.currentAccountID.String())
	content = strings.ReplaceAll(content, "{{rule_id}}", t.currentRuleID.String())
	content = strings.ReplaceAll(content, "{{item_id}}", t.currentItemID.String())
	content = strings.ReplaceAll(content, "{{suggestion_id}}", t.suggestionID.String())
	content = strings.ReplaceAll(content, "{{transaction_id}}", t.lastTransactionID.String())
	content = strings.ReplaceAll(content, "{{manual_transaction_id}}", t.manualTransactionID.String())
	content = strings.ReplaceAll(content, "{{bank_transaction_id}}", t.bankTransactionID.String())

	// Handle transaction_ids array placeholder
	if len(t.transactionIDs) > 0 {
		ids := make([]string, len(t.transactionIDs))
		for i, id := range t.transactionIDs {
			ids[i] = fmt.Sprintf(`"%s"`, id.String())
		}
		content = strings.ReplaceAll(content, "{{transaction_ids}}", "["+strings.Join(ids, ", ")+"]")
	}

	return content
}

func (t *testContext) executeRequest(method, path string, payload []byte) error {
	var req *http.Request
	var err error

	url := t.uri + path

	if payload != nil {
		req, err = http.NewRequest(method, url, bytes.NewReader(payload))
	} else {
		req, err = http.NewRequest(method, url, nil)
	}
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")

	if t.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+t.accessToken)
	}

	for key, value := range t.headers {
		req.Header.Set(key, value)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	t.response = &response{
		status: resp.StatusCode,
	}

	var responseBody map[string]any
	if err := json.Unmarshal(bodyBytes, &responseBody); err != nil {
		t.response.body = string(bodyBytes)
	} else {
		t.response.body = responseBody

		// Capture the ID of newly created resources if present
		if idStr, ok := responseBody["id"].(string); ok {
			if id, err := uuid.Parse(idStr); err == nil {
				t.lastTransactionID = id
				t.transactionIDs = append(t.transactionIDs, id)
			}
		}
	}

	return nil
}

func (t *testContext) theResponseStatusShouldBe(expectedStatus int) error {
	if t.response == nil {
		return errors.New("no response received")
	}
	if t.response.status != expectedStatus {
		return fmt.Errorf("expected status %d, got %d (body: %v)", expectedStatus, t.response.status, t.response.body)
	}
	return nil
}

func (t *testContext) theResponseShouldBeJSON() error {
	if t.response == nil {
		return errors.New("no response received")
	}
	if _, ok := t.response.body.(map[string]any); !ok {
		return fmt.Errorf("response is not JSON: %v", t.response.body)
	}
	return nil
}

func (t *testContext) theResponseShouldContain(expected string) error {
	if t.response == nil {
		return errors.New("no response received")
	}

	if body, ok := t.response.body.(map[string]any); ok {
		if _, exists := body[expected]; exists {
			return nil
		}
	}

	// Not a top-level field: fall back to a substring search over the body.
	raw, err := json.Marshal(t.response.body)
	if err != nil {
		return fmt.Errorf("failed to marshal response body: %w", err)
	}
	if !strings.Contains(string(raw), expected) {
		return fmt.Errorf("response does not contain '%s': %s", expected, raw)
	}
	return nil
}

func (t *testContext) theResponseFieldShouldBe(field, expectedValue string) error {
	if t.response == nil {
		return errors.New("no response received")
	}

	// Expected values can reference fixture IDs the same way requests do
	expectedValue = t.replacePlaceholders(expectedValue)

	body, ok := t.response.body.(map[string]any)
	if !ok {
		return fmt.Errorf("response is not a JSON object: %v", t.response.body)
	}

	value := getFieldValue(body, field)
	if value == nil {
		return fmt.Errorf("field '%s' not found in response: %v", field, body)
	}

	actualValue := fmt.Sprintf("%v", value)
	if actualValue != expectedValue {
		return fmt.Errorf("field '%s' expected '%s', got '%s'", field, expectedValue, actualValue)
	}
	return nil
}

func (t *testContext) theResponseFieldShouldExist(field string) error {
	if t.response == nil {
		return errors.New("no response received")
	}

	body, ok := t.response.body.(map[string]any)
	if !ok {
		return fmt.Errorf("response is not a JSON object: %v", t.response.body)
	}

	value := getFieldValue(body, field)
	if value == nil {
		return fmt.Errorf("field '%s' not found in response: %v", field, body)
	}
	return nil
}

func (t *testContext) theDbShouldContainObjectsInTheTable(quantity int, table string) error {
	if entity, ok := t.db.GetModel(table); ok {
		entityType := reflect.TypeOf(entity).Elem()
		entitySlice := reflect.MakeSlice(reflect.SliceOf(entityType), 0, 0)
		entitySlicePtr := reflect.New(entitySlice.Type())
		entitySlicePtr.Elem().Set(entitySlice)

		result := t.db.DbConn.Unscoped().Find(entitySlicePtr.Interface())
		if result.Error != nil {
			return result.Error
		}

		count := entitySlicePtr.Elem().Len()
		if count != quantity {
			return fmt.Errorf("expected %d objects in '%s', got %d", quantity, table, count)
		}
		return nil
	}
	return fmt.Errorf("table '%s' not found in models", table)
}

func (t *testContext) theDbShouldContainObjectsInWithTheValues(quantity int, table string, content *godog.DocString) error {
	var criteria map[string]any
	if err := json.Unmarshal([]byte(t.replacePlaceholders(content.Content)), &criteria); err != nil {
		return err
	}

	if entity, ok := t.db.GetModel(table); ok {
		entityType := reflect.TypeOf(entity).Elem()
		entitySlice := reflect.MakeSlice(reflect.SliceOf(entityType), 0, 0)
		entitySlicePtr := reflect.New(entitySlice.Type())
		entitySlicePtr.Elem().Set(entitySlice)

		query := t.db.DbConn.Unscoped()
		for key, value := range criteria {
			query = query.Where(fmt.Sprintf("%s = ?", key), value)
		}

		result := query.Find(entitySlicePtr.Interface())
		if result.Error != nil && !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return result.Error
		}

		count := entitySlicePtr.Elem().Len()
		if count != quantity {
			return fmt.Errorf("expected %d objects in '%s' with criteria %v, got %d", quantity, table, criteria, count)
		}
		return nil
	}
	return fmt.Errorf("table '%s' not found in models", table)
}

func getFieldValue(object any, dotSeparatedField string) any {
	if object == nil {
		return nil
	}

	var objectMap map[string]any
	switch v := object.(type) {
	case map[string]any:
		objectMap = v
	default:
		objectJSON, _ := json.Marshal(object)
		if err := json.Unmarshal(objectJSON, &objectMap); err != nil {
			return nil
		}
	}

	fields := strings.Split(dotSeparatedField, ".")
	var field any = objectMap

	for _, currentField := range fields {
		if field == nil {
			return nil
		}

		if i, err := strconv.Atoi(currentField); err == nil {
			if arr, ok := field.([]any); ok && i < len(arr) {
				field = arr[i]
			} else {
				return nil
			}
		} else {
			if m, ok := field.(map[string]any); ok {
				field = m[currentField]
			} else {
				return nil
			}
		}
	}

	return field
}
