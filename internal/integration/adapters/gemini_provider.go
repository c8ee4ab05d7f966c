package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/isakbosman/manna/internal/application/adapter"
	"github.com/isakbosman/manna/internal/domain/entity"
)

// GeminiProvider is the last suggestion layer. It sends whatever the rules
// and the classifier left uncovered to Google Gemini, which may also propose
// categories that do not exist yet.
type GeminiProvider struct {
	apiKey    string
	modelName string
}

// NewGeminiProvider creates a new Gemini provider instance.
func NewGeminiProvider(apiKey string) *GeminiProvider {
	return &GeminiProvider{
		apiKey:    apiKey,
		modelName: "gemini-2.5-flash-lite",
	}
}

// IsAvailable checks if the provider is configured with an API key.
func (p *GeminiProvider) IsAvailable() bool {
	return p.apiKey != ""
}

// Suggest asks the model for grouped categorization proposals.
func (p *GeminiProvider) Suggest(ctx context.Context, cc adapter.CategorizationContext) ([]adapter.ProviderSuggestion, error) {
	if !p.IsAvailable() {
		return nil, fmt.Errorf("gemini provider is not configured")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(p.apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(p.modelName)
	model.SetTemperature(0.3)
	model.ResponseMIMEType = "application/json"

	prompt := p.buildPrompt(cc)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	proposals, err := p.parseResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return proposals, nil
}

// buildPrompt creates the prompt for Gemini.
func (p *GeminiProvider) buildPrompt(cc adapter.CategorizationContext) string {
	var sb strings.Builder

	sb.WriteString(`You are an expert at categorizing financial transactions. Your task is to analyze uncategorized transactions and suggest appropriate categories.

For each transaction you must:
1. Identify a keyword pattern that matches similar transactions
2. Suggest an existing category or propose a new one
3. Identify the match type: "exact", "startsWith", or "contains"

IMPORTANT RULES:
- Prefer existing categories when they fit well
- For new categories, suggest a name, an icon (from the list below), and a hex color
- The keyword must be specific enough to avoid false positives, but general enough to capture similar transactions
- Use "contains" for partial matches, "startsWith" for prefixes, "exact" for exact matches
- Group similar transactions under one pattern

AVAILABLE ICONS (use ONLY these exact names):
Finance: wallet, credit-card, bank, receipt, coins, piggy-bank, chart-line, dollar-sign
Food: utensils, coffee, pizza, apple, wine
Transport: car, bus, plane, train, bike, gas-pump
Home: home, bed, sofa, lamp, wrench
Entertainment: music, film, gamepad, tv, ticket
Health: heart, medical, pill, dumbbell
Education: book, graduation-cap, pencil
Shopping: shopping-bag, shopping-cart, tag, gift, percent
Utilities: bolt, wifi, phone, droplet, flame
Other: briefcase, globe, star

ICON HINTS BY CATEGORY TYPE:
- Groceries: shopping-cart
- Restaurants/Dining: utensils
- Pharmacy: medical
- Rideshare/Transport: car
- Fuel/Gas station: gas-pump
- Streaming/Subscriptions: tv
- Shopping: shopping-bag
- Gym/Fitness: dumbbell
- Education: book
- Bank fees: bank
- Rent/Housing: home
- Leisure: gamepad
- Travel: plane
- Services: briefcase

EXISTING CATEGORIES:
`)

	if len(cc.ExistingCategories) > 0 {
		for _, cat := range cc.ExistingCategories {
			sb.WriteString(fmt.Sprintf("- ID: %s, Name: %s, Type: %s, Icon: %s\n",
				cat.ID, cat.Name, cat.Type, cat.Icon))
		}
	} else {
		sb.WriteString("(no existing categories)\n")
	}

	sb.WriteString("\nTRANSACTIONS TO CATEGORIZE:\n")
	for _, txn := range cc.Transactions {
		sb.WriteString(fmt.Sprintf("- ID: %s, Description: \"%s\", Amount: %s, Date: %s, Type: %s\n",
			txn.ID, txn.Description, txn.Amount, txn.Date.Format("2006-01-02"), txn.Type))
	}

	sb.WriteString(`

Respond with a JSON array of suggestions. Each suggestion must have:
{
  "transaction_id": "uuid of the primary transaction",
  "suggested_category_id": "uuid of an existing category or null",
  "suggested_category_new": { "name": "string", "icon": "string from the icon list", "color": "#XXXXXX" } or null,
  "match_type": "contains" | "startsWith" | "exact",
  "match_keyword": "keyword/pattern for matching",
  "affected_transaction_ids": ["uuids of other transactions matching the pattern"],
  "confidence": 0.0-1.0,
  "reasoning": "brief explanation"
}

Group similar transactions. If multiple transactions match the same pattern, include one suggestion with all affected IDs.

IMPORTANT: Use ONLY icons from the list above. Do not invent icon names.

RESPONSE FORMAT: Return only the JSON array, no additional text.
`)

	return sb.String()
}

// geminiSuggestion represents the raw response from Gemini.
type geminiSuggestion struct {
	TransactionID          string             `json:"transaction_id"`
	SuggestedCategoryID    *string            `json:"suggested_category_id"`
	SuggestedCategoryNew   *geminiNewCategory `json:"suggested_category_new"`
	MatchType              string             `json:"match_type"`
	MatchKeyword           string             `json:"match_keyword"`
	AffectedTransactionIDs []string           `json:"affected_transaction_ids"`
	Confidence             float64            `json:"confidence"`
	Reasoning              string             `json:"reasoning"`
}

type geminiNewCategory struct {
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

// parseResponse parses the Gemini response into provider proposals.
func (p *GeminiProvider) parseResponse(resp *genai.GenerateContentResponse) ([]adapter.ProviderSuggestion, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("empty response from gemini")
	}

	var textContent string
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			textContent = string(text)
			break
		}
	}

	if textContent == "" {
		return nil, fmt.Errorf("no text content in response")
	}

	// Strip markdown code fences if present
	textContent = strings.TrimPrefix(textContent, "```json")
	textContent = strings.TrimPrefix(textContent, "```")
	textContent = strings.TrimSuffix(textContent, "```")
	textContent = strings.TrimSpace(textContent)

	var raw []geminiSuggestion
	if err := json.Unmarshal([]byte(textContent), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w, content: %s", err, textContent)
	}

	proposals := make([]adapter.ProviderSuggestion, 0, len(raw))
	for _, s := range raw {
		proposal := adapter.ProviderSuggestion{
			TransactionID:          s.TransactionID,
			MatchType:              entity.MatchType(s.MatchType),
			MatchKeyword:           s.MatchKeyword,
			AffectedTransactionIDs: s.AffectedTransactionIDs,
			Confidence:             s.Confidence,
			Source:                 entity.SuggestionSourceLLM,
			Reasoning:              s.Reasoning,
		}

		switch proposal.MatchType {
		case entity.MatchTypeContains, entity.MatchTypeStartsWith, entity.MatchTypeExact:
		default:
			proposal.MatchType = entity.MatchTypeContains
		}

		if s.SuggestedCategoryID != nil && *s.SuggestedCategoryID != "" {
			proposal.CategoryID = s.SuggestedCategoryID
		} else if s.SuggestedCategoryNew != nil {
			proposal.SuggestedNew = &entity.SuggestedCategoryNew{
				Name:  s.SuggestedCategoryNew.Name,
				Icon:  s.SuggestedCategoryNew.Icon,
				Color: s.SuggestedCategoryNew.Color,
			}
		}

		proposals = append(proposals, proposal)
	}

	return proposals, nil
}
