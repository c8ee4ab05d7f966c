package reconciliation

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/isakbosman/manna/internal/domain/entity"
	"github.com/isakbosman/manna/internal/domain/valueobject"
)

func manualTxn(day int, description string, amount float64) *entity.Transaction {
	return entity.NewTransaction(
		uuid.New(),
		nil,
		time.Date(2025, 4, day, 0, 0, 0, 0, time.UTC),
		description,
		decimal.NewFromFloat(amount),
		entity.TransactionTypeExpense,
		nil,
		"",
	)
}

func bankTxn(day int, description string, amount float64) *entity.Transaction {
	return entity.NewPlaidTransaction(
		uuid.New(),
		uuid.New(),
		uuid.NewString(),
		time.Date(2025, 4, day, 0, 0, 0, 0, time.UTC),
		description,
		"",
		decimal.NewFromFloat(amount),
		false,
	)
}

func TestBuildCandidates(t *testing.T) {
	cfg := valueobject.DefaultMatchingConfig()
	manual := manualTxn(15, "Dinner out", -42.00)

	t.Run("matches exact amounts within the date window", func(t *testing.T) {
		bank := bankTxn(16, "RESTAURANT 42", -42.00)

		candidates := buildCandidates(manual, []*entity.Transaction{bank}, nil, cfg)
		if len(candidates) != 1 {
			t.Fatalf("expected 1 candidate, got %d", len(candidates))
		}
		if candidates[0].DaysApart != 1 {
			t.Errorf("expected 1 day apart, got %d", candidates[0].DaysApart)
		}
		if candidates[0].Confidence != valueobject.ConfidenceHigh {
			t.Errorf("expected high confidence, got %s", candidates[0].Confidence)
		}
	})

	t.Run("tolerates a one-cent amount difference", func(t *testing.T) {
		bank := bankTxn(15, "RESTAURANT 42", -42.01)

		candidates := buildCandidates(manual, []*entity.Transaction{bank}, nil, cfg)
		if len(candidates) != 1 {
			t.Fatalf("expected 1 candidate, got %d", len(candidates))
		}
		if !candidates[0].AmountDifference.Equal(decimal.NewFromFloat(0.01)) {
			t.Errorf("expected difference 0.01, got %s", candidates[0].AmountDifference)
		}
	})

	t.Run("rejects amounts outside tolerance", func(t *testing.T) {
		bank := bankTxn(15, "RESTAURANT 42", -42.50)

		candidates := buildCandidates(manual, []*entity.Transaction{bank}, nil, cfg)
		if len(candidates) != 0 {
			t.Fatalf("expected no candidates, got %d", len(candidates))
		}
	})

	t.Run("rejects dates outside the window", func(t *testing.T) {
		bank := bankTxn(25, "RESTAURANT 42", -42.00)

		candidates := buildCandidates(manual, []*entity.Transaction{bank}, nil, cfg)
		if len(candidates) != 0 {
			t.Fatalf("expected no candidates, got %d", len(candidates))
		}
	})

	t.Run("skips bank rows that are already linked", func(t *testing.T) {
		bank := bankTxn(15, "RESTAURANT 42", -42.00)
		linked := map[uuid.UUID]bool{bank.ID: true}

		candidates := buildCandidates(manual, []*entity.Transaction{bank}, linked, cfg)
		if len(candidates) != 0 {
			t.Fatalf("expected no candidates, got %d", len(candidates))
		}
	})

	t.Run("ranks closer dates first", func(t *testing.T) {
		far := bankTxn(19, "RESTAURANT FAR", -42.00)
		near := bankTxn(14, "RESTAURANT NEAR", -42.00)

		candidates := buildCandidates(manual, []*entity.Transaction{far, near}, nil, cfg)
		if len(candidates) != 2 {
			t.Fatalf("expected 2 candidates, got %d", len(candidates))
		}
		if candidates[0].BankTransactionID != near.ID {
			t.Error("expected the closer date to rank first")
		}
		if candidates[0].Score <= candidates[1].Score {
			t.Errorf("expected descending scores, got %f then %f",
				candidates[0].Score, candidates[1].Score)
		}
	})
}

func TestConfidenceGrading(t *testing.T) {
	cfg := valueobject.DefaultMatchingConfig()

	cases := []struct {
		daysApart int
		want      valueobject.Confidence
	}{
		{0, valueobject.ConfidenceHigh},
		{1, valueobject.ConfidenceHigh},
		{2, valueobject.ConfidenceMedium},
		{3, valueobject.ConfidenceMedium},
		{4, valueobject.ConfidenceLow},
		{7, valueobject.ConfidenceLow},
	}
	for _, tc := range cases {
		if got := cfg.CalculateConfidence(tc.daysApart); got != tc.want {
			t.Errorf("CalculateConfidence(%d) = %s, want %s", tc.daysApart, got, tc.want)
		}
	}
}

func TestBuildPendingEntries(t *testing.T) {
	cfg := valueobject.DefaultMatchingConfig()
	userID := uuid.New()

	first := manualTxn(10, "Groceries", -80.00)
	first.UserID = userID
	second := manualTxn(12, "Rent", -1200.00)
	second.UserID = userID
	bank := bankTxn(10, "SUPERMARKET", -80.00)

	t.Run("pairs unlinked manual entries with candidates", func(t *testing.T) {
		entries := buildPendingEntries(
			[]*entity.Transaction{first, second},
			[]*entity.Transaction{bank},
			nil,
			cfg,
		)
		if len(entries) != 2 {
			t.Fatalf("expected 2 entries, got %d", len(entries))
		}
		if len(entries[0].Candidates) != 1 {
			t.Errorf("expected a candidate for the groceries entry, got %d", len(entries[0].Candidates))
		}
		if len(entries[1].Candidates) != 0 {
			t.Errorf("expected no candidates for the rent entry, got %d", len(entries[1].Candidates))
		}
	})

	t.Run("excludes already-linked manual entries", func(t *testing.T) {
		linked := map[uuid.UUID]bool{first.ID: true}

		entries := buildPendingEntries(
			[]*entity.Transaction{first, second},
			[]*entity.Transaction{bank},
			linked,
			cfg,
		)
		if len(entries) != 1 {
			t.Fatalf("expected 1 entry, got %d", len(entries))
		}
		if entries[0].ManualTransactionID != second.ID {
			t.Error("expected only the rent entry to remain pending")
		}
	})
}
