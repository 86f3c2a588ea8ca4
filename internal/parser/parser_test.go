package parser

import (
	"testing"

	"github.com/transmatch/transmatch/internal/models"
)

// stubResolver satisfies NameResolver with fixed answers so template tests
// stay independent of the extraction cascade.
type stubResolver struct {
	name     string
	enriched string
}

func (s stubResolver) Resolve(string) string         { return s.name }
func (s stubResolver) ResolveEnriched(string) string { return s.enriched }

func TestSupported(t *testing.T) {
	supported := []models.BankID{
		models.BankPublicIslamic,
		models.BankPublic,
		models.BankMaybankIslamic,
		models.BankMaybank,
		models.BankCIMBIslamic,
		models.BankCIMB,
		models.BankRHBIslamic,
		models.BankRHBReflex,
		models.BankRHB,
		models.BankHongLeongIslamic,
		models.BankHongLeong,
		models.BankUOBIslamic,
		models.BankUOB,
	}
	for _, id := range supported {
		if !Supported(id) {
			t.Errorf("Supported(%d) = false, want true", id)
		}
	}

	unsupported := []models.BankID{
		models.BankUnknown,
		models.BankAmBank,
		models.BankAeon,
		models.BankAffin,
		models.BankBSN,
		models.BankMuamalat,
	}
	for _, id := range unsupported {
		if Supported(id) {
			t.Errorf("Supported(%d) = true, want false", id)
		}
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		id   models.BankID
		name string
	}{
		{models.BankMaybank, "Malayan Banking Berhad"},
		{models.BankMaybankIslamic, "Maybank Islamic Berhad"},
		{models.BankPublic, "Public Bank"},
		{models.BankPublicIslamic, "Public Islamic Bank"},
		{models.BankCIMB, "CIMB Bank Berhad"},
		{models.BankCIMBIslamic, "CIMB Islamic Bank Berhad"},
		{models.BankRHB, "RHB Bank Berhad"},
		{models.BankRHBIslamic, "RHB Islamic Bank Berhad"},
		{models.BankHongLeong, "Hong Leong Bank Berhad"},
		{models.BankHongLeongIslamic, "Hong Leong Islamic Bank Berhad"},
		{models.BankUOB, "UOB Bank Berhad"},
	}
	for _, tt := range tests {
		p, err := New(tt.id, stubResolver{})
		if err != nil {
			t.Fatalf("New(%d): %v", tt.id, err)
		}
		if got := p.BankName(); got != tt.name {
			t.Errorf("New(%d).BankName() = %q, want %q", tt.id, got, tt.name)
		}
	}

	if _, err := New(models.BankAmBank, stubResolver{}); err == nil {
		t.Error("expected error for bank without a template")
	}
}
