package identify

import (
	"testing"

	"github.com/transmatch/transmatch/internal/extractor"
	"github.com/transmatch/transmatch/internal/models"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		header  string
		bankID  models.BankID
		backend string
	}{
		{"PUBLIC BANK BERHAD", models.BankPublic, extractor.BackendTextLayer},
		{"PUBLIC ISLAMIC BANK BERHAD", models.BankPublicIslamic, extractor.BackendTextLayer},
		{"Malayan Banking Berhad (3813-K)", models.BankMaybank, extractor.BackendTextLayer},
		{"MAYBANK ISLAMIC BERHAD", models.BankMaybankIslamic, extractor.BackendTextLayer},
		{"CIMB CDCKS", models.BankCIMB, extractor.BackendTextLayer},
		{"CIMB ISLAMIC BANK BERHAD", models.BankCIMBIslamic, extractor.BackendTextLayer},
		{"RHB Bank Berhad 196501000373", models.BankRHB, extractor.BackendTextLayer},
		{"RBS Reflex Corporate Banking", models.BankRHBReflex, extractor.BackendLayoutReflex},
		{"HONGLEONG BANK", models.BankHongLeong, extractor.BackendLayoutHongLeong},
		{"HONGLEONG ISLAMIC BANK", models.BankHongLeongIslamic, extractor.BackendLayoutHongLeong},
		{"ITT UOB MALAYSIA", models.BankUOB, extractor.BackendTextLayer},
		{"AMBANK BERHAD", models.BankAmBank, extractor.BackendTextLayer},
		{"BSN SIMPANAN NASIONAL", models.BankBSN, extractor.BackendTextLayer},
		{"BANK MUAMALAT MALAYSIA", models.BankMuamalat, extractor.BackendTextLayer},
	}
	for _, tt := range tests {
		bankID, backend, ok := Match(tt.header)
		if !ok {
			t.Errorf("Match(%q): no match", tt.header)
			continue
		}
		if bankID != tt.bankID {
			t.Errorf("Match(%q): bank %d, want %d", tt.header, bankID, tt.bankID)
		}
		if backend != tt.backend {
			t.Errorf("Match(%q): backend %q, want %q", tt.header, backend, tt.backend)
		}
	}
}

func TestMatchNothing(t *testing.T) {
	if _, _, ok := Match("JPMORGAN CHASE & CO"); ok {
		t.Error("unrelated header should not match")
	}
	if _, _, ok := Match(""); ok {
		t.Error("empty header should not match")
	}
}

// The specific variant must win over its generic prefix, so ordering in
// the fingerprint table matters.
func TestMatchSpecificBeforeGeneric(t *testing.T) {
	bankID, _, ok := Match("PUBLIC ISLAMIC BANK BERHAD is a PUBLIC BANK subsidiary")
	if !ok || bankID != models.BankPublicIslamic {
		t.Errorf("got bank %d, want %d", bankID, models.BankPublicIslamic)
	}

	bankID, _, ok = Match("HONGLEONG ISLAMIC BANK a member of HONGLEONG BANK group")
	if !ok || bankID != models.BankHongLeongIslamic {
		t.Errorf("got bank %d, want %d", bankID, models.BankHongLeongIslamic)
	}
}

// The Reflex fingerprint requires both tokens.
func TestMatchReflexRequiresAllPhrases(t *testing.T) {
	if _, _, ok := Match("RBS corporate portal"); ok {
		t.Error("rbs without reflex should not match")
	}
	bankID, backend, ok := Match("reflex online banking RBS")
	if !ok || bankID != models.BankRHBReflex || backend != extractor.BackendLayoutReflex {
		t.Errorf("got bank %d backend %q", bankID, backend)
	}
}

func TestNormalizeHeader(t *testing.T) {
	if got := normalizeHeader("  RHB\n\tBank   Berhad "); got != " rhb bank berhad " {
		t.Errorf("normalizeHeader = %q", got)
	}
}
