package parser

import (
	"fmt"

	"github.com/transmatch/transmatch/internal/models"
)

// NameResolver extracts a counterparty name from transaction narration.
// Implementations never fail; an empty string means no name was found.
type NameResolver interface {
	Resolve(text string) string
	ResolveEnriched(text string) string
}

// Parser turns extracted statement text into structured data. Header
// receives first-page text, Transactions the full document; both come from
// the backend the bank's fingerprint selected, so a template that relies on
// positional JSON rows gets exactly that.
type Parser interface {
	BankName() string
	Header(text string) models.DocumentHeader
	Transactions(text string) ([]models.TransactionRecord, error)
}

type factory func(bankID models.BankID, names NameResolver) Parser

// registry is the fixed bank-to-template table. Both the conventional and
// Islamic variants of a bank share a template; the bank ID tells the
// template which wording differences to expect.
var registry = map[models.BankID]factory{
	models.BankPublicIslamic:    newPublicBank,
	models.BankPublic:           newPublicBank,
	models.BankMaybankIslamic:   newMaybank,
	models.BankMaybank:          newMaybank,
	models.BankCIMBIslamic:      newCIMB,
	models.BankCIMB:             newCIMB,
	models.BankRHBIslamic:       newRHB,
	models.BankRHBReflex:        newRHB,
	models.BankRHB:              newRHB,
	models.BankHongLeongIslamic: newHongLeong,
	models.BankHongLeong:        newHongLeong,
	models.BankUOBIslamic:       newUOB,
	models.BankUOB:              newUOB,
}

// Supported reports whether a template exists for the bank.
func Supported(bankID models.BankID) bool {
	_, ok := registry[bankID]
	return ok
}

// New returns the template for the bank, or an error when the bank is
// identified but has no template yet.
func New(bankID models.BankID, names NameResolver) (Parser, error) {
	f, ok := registry[bankID]
	if !ok {
		return nil, fmt.Errorf("no statement template for bank id %d", bankID)
	}
	return f(bankID, names), nil
}
