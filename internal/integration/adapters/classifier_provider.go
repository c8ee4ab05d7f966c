package adapters

import (
	"context"
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/isakbosman/manna/internal/application/adapter"
	"github.com/isakbosman/manna/internal/domain/entity"
)

const (
	// classifierMinTrainingSamples is the least categorized history the
	// classifier will train on. Below this the predictions are noise.
	classifierMinTrainingSamples = 20

	// classifierMinConfidence is the posterior a prediction needs before it
	// becomes a suggestion.
	classifierMinConfidence = 0.55
)

// ClassifierProvider is the second suggestion layer: a naive Bayes text
// classifier trained on the user's own categorized transactions. It covers
// recurring merchants the rules miss without a network call.
type ClassifierProvider struct{}

// NewClassifierProvider creates a new ClassifierProvider instance.
func NewClassifierProvider() *ClassifierProvider {
	return &ClassifierProvider{}
}

// Suggest trains on the context's training samples and predicts a category
// for each uncategorized transaction, grouping transactions that land on the
// same category and keyword into one proposal.
func (p *ClassifierProvider) Suggest(_ context.Context, cc adapter.CategorizationContext) ([]adapter.ProviderSuggestion, error) {
	if len(cc.TrainingSamples) < classifierMinTrainingSamples {
		return nil, nil
	}

	known := make(map[uuid.UUID]bool, len(cc.ExistingCategories))
	for _, cat := range cc.ExistingCategories {
		known[cat.ID] = true
	}

	model := trainBayes(cc.TrainingSamples, known)
	if model == nil {
		return nil, nil
	}

	type group struct {
		primary  *entity.Transaction
		affected []string
		total    float64
		count    int
	}
	groups := make(map[string]*group)
	var order []string

	for _, txn := range cc.Transactions {
		tokens := tokenize(txn.Description + " " + txn.MerchantName)
		categoryID, confidence, keyword := model.predict(tokens)
		if categoryID == uuid.Nil || confidence < classifierMinConfidence || keyword == "" {
			continue
		}

		key := categoryID.String() + "|" + keyword
		g, ok := groups[key]
		if !ok {
			g = &group{primary: txn}
			groups[key] = g
			order = append(order, key)
		} else {
			g.affected = append(g.affected, txn.ID.String())
		}
		g.total += confidence
		g.count++
	}

	proposals := make([]adapter.ProviderSuggestion, 0, len(order))
	for _, key := range order {
		g := groups[key]
		categoryID := strings.SplitN(key, "|", 2)[0]
		keyword := strings.SplitN(key, "|", 2)[1]

		proposals = append(proposals, adapter.ProviderSuggestion{
			TransactionID:          g.primary.ID.String(),
			CategoryID:             &categoryID,
			MatchType:              entity.MatchTypeContains,
			MatchKeyword:           keyword,
			Confidence:             g.total / float64(g.count),
			Source:                 entity.SuggestionSourceClassifier,
			Reasoning:              "similar past transactions were filed under this category",
			AffectedTransactionIDs: g.affected,
		})
	}

	return proposals, nil
}

// bayesModel holds per-category token counts with document frequencies for
// inverse-document-frequency weighting.
type bayesModel struct {
	tokenCounts map[uuid.UUID]map[string]float64
	totalTokens map[uuid.UUID]float64
	docCounts   map[uuid.UUID]int
	docFreq     map[string]int
	totalDocs   int
	vocabSize   int
}

func trainBayes(samples []*entity.Transaction, known map[uuid.UUID]bool) *bayesModel {
	m := &bayesModel{
		tokenCounts: make(map[uuid.UUID]map[string]float64),
		totalTokens: make(map[uuid.UUID]float64),
		docCounts:   make(map[uuid.UUID]int),
		docFreq:     make(map[string]int),
	}

	vocab := make(map[string]bool)
	for _, txn := range samples {
		if txn.CategoryID == nil || !known[*txn.CategoryID] {
			continue
		}
		tokens := tokenize(txn.Description + " " + txn.MerchantName)
		if len(tokens) == 0 {
			continue
		}

		categoryID := *txn.CategoryID
		counts, ok := m.tokenCounts[categoryID]
		if !ok {
			counts = make(map[string]float64)
			m.tokenCounts[categoryID] = counts
		}

		seen := make(map[string]bool)
		for _, token := range tokens {
			counts[token]++
			m.totalTokens[categoryID]++
			vocab[token] = true
			if !seen[token] {
				m.docFreq[token]++
				seen[token] = true
			}
		}
		m.docCounts[categoryID]++
		m.totalDocs++
	}

	if m.totalDocs == 0 || len(m.tokenCounts) < 2 {
		return nil
	}
	m.vocabSize = len(vocab)
	return m
}

// predict returns the most likely category, a softmax confidence over all
// categories, and the transaction token most indicative of the winner.
func (m *bayesModel) predict(tokens []string) (uuid.UUID, float64, string) {
	if len(tokens) == 0 {
		return uuid.Nil, 0, ""
	}

	type scored struct {
		categoryID uuid.UUID
		logProb    float64
	}
	scores := make([]scored, 0, len(m.tokenCounts))
	for categoryID, counts := range m.tokenCounts {
		logProb := math.Log(float64(m.docCounts[categoryID]) / float64(m.totalDocs))
		for _, token := range tokens {
			likelihood := (counts[token] + 1) / (m.totalTokens[categoryID] + float64(m.vocabSize))
			logProb += m.idf(token) * math.Log(likelihood)
		}
		scores = append(scores, scored{categoryID: categoryID, logProb: logProb})
	}

	sort.Slice(scores, func(i, j int) bool { return scores[i].logProb > scores[j].logProb })
	best := scores[0]

	// Softmax over the log scores, shifted by the max for stability
	var denom float64
	for _, s := range scores {
		denom += math.Exp(s.logProb - best.logProb)
	}
	confidence := 1 / denom

	return best.categoryID, confidence, m.bestToken(tokens, best.categoryID)
}

// idf dampens tokens that show up in every category ("payment", "card").
func (m *bayesModel) idf(token string) float64 {
	df := m.docFreq[token]
	if df == 0 {
		df = 1
	}
	return math.Log(1 + float64(m.totalDocs)/float64(df))
}

// bestToken picks the token with the highest weighted likelihood under the
// winning category, which becomes the suggested match keyword.
func (m *bayesModel) bestToken(tokens []string, categoryID uuid.UUID) string {
	counts := m.tokenCounts[categoryID]
	var best string
	var bestScore float64
	for _, token := range tokens {
		score := counts[token] * m.idf(token)
		if score > bestScore {
			best = token
			bestScore = score
		}
	}
	return best
}

// tokenize lowercases and splits on non-letter boundaries, dropping short and
// purely numeric tokens (dates, card fragments, reference numbers).
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		if len(field) < 3 {
			continue
		}
		numeric := true
		for _, r := range field {
			if !unicode.IsDigit(r) {
				numeric = false
				break
			}
		}
		if numeric {
			continue
		}
		tokens = append(tokens, field)
	}
	return tokens
}
