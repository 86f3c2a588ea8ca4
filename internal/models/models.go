package models

import "github.com/shopspring/decimal"

// BankID identifies a bank family/template pair. Values mirror the fixed
// fingerprint ordering in internal/identify and must not be renumbered.
type BankID int

const (
	BankUnknown BankID = 0

	BankPublicIslamic   BankID = 1
	BankPublic          BankID = 2
	BankMaybankIslamic  BankID = 3
	BankMaybank         BankID = 4
	BankCIMBIslamic     BankID = 5
	BankCIMB            BankID = 6
	BankRHBIslamic      BankID = 7
	BankRHBReflex       BankID = 8
	BankRHB             BankID = 9
	BankHongLeongIslamic BankID = 10
	BankHongLeong       BankID = 11
	BankAmBankIslamic   BankID = 12
	BankAmBank          BankID = 13
	BankUOBIslamic      BankID = 14
	BankUOB             BankID = 15
	BankAeonIslamic     BankID = 16
	BankAeon            BankID = 17
	BankAffinIslamic    BankID = 18
	BankAffin           BankID = 19
	BankBSNIslamic      BankID = 20
	BankBSN             BankID = 21
	BankMuamalat        BankID = 22
)

// Pipeline error codes. Surfaced as integers at the boundary, never as
// panics; callers treat any code > 90 they don't recognize as "contact
// support".
const (
	ErrDispatch       = 97 // unknown page mode or parser failed to load
	ErrBankUndefined  = 98 // page-1 header matched no fingerprint
	ErrBankUnsupported = 99 // fingerprint matched, no parser registered
)

// Sentinel values for header fields that could not be located. A partial
// header is still useful, so absence is never fatal.
const (
	NotAvailable    = "NA"
	UnknownValue    = "Unknown"
	UnknownCustomer = "Unknown Customer"
)

// DocumentHeader holds the statement-level identity fields extracted from
// page 1. Every field defaults to a sentinel when its pattern fails.
type DocumentHeader struct {
	BankName           string `json:"bankName"`
	BankRegistrationNo string `json:"bankRegistrationNo"`
	BankAddress        string `json:"bankAddress"`
	CustomerName       string `json:"customerName"`
	CustomerAddress    string `json:"customerAddress"`
	// StatementDate is normalized to DD/MM/YY.
	StatementDate string `json:"statementDate"`
	AccountNumber string `json:"accountNumber"`
}

// NewDocumentHeader returns a header with all fields defaulted.
func NewDocumentHeader() DocumentHeader {
	return DocumentHeader{
		BankName:           UnknownValue,
		BankRegistrationNo: NotAvailable,
		BankAddress:        NotAvailable,
		CustomerName:       UnknownCustomer,
		CustomerAddress:    NotAvailable,
		StatementDate:      NotAvailable,
		AccountNumber:      UnknownValue,
	}
}

// TransactionRecord is one normalized statement row. Exactly one of
// Credit/Debit is non-zero in the common case; templates decide which by
// column position or by balance movement.
type TransactionRecord struct {
	Date             string          `json:"date" csv:"date"`
	Description      string          `json:"description" csv:"description"`
	DescriptionOther string          `json:"descriptionOther" csv:"description_other"`
	CounterpartyName string          `json:"counterpartyName" csv:"counterparty"`
	Credit           decimal.Decimal `json:"creditAmount" csv:"credit"`
	Debit            decimal.Decimal `json:"debitAmount" csv:"debit"`
	Balance          decimal.Decimal `json:"statementBalance" csv:"balance"`
}

// ReflexRow is one table row from an RHB Reflex statement, reconstructed
// from word coordinates. Layout extraction serializes a slice of these as
// JSON; the Reflex template decodes it back.
type ReflexRow struct {
	Date            string `json:"date"`
	Branch          string `json:"branch"`
	Description     string `json:"description"`
	Sender          string `json:"sender"`
	Reference1      string `json:"reference1"`
	Reference2      string `json:"reference2"`
	ReferenceNumber string `json:"referenceNumber"`
	AmountDebit     string `json:"amountDebit"`
	AmountCredit    string `json:"amountCredit"`
	Balance         string `json:"balance"`
}

// PositionedRow is a visual row whose money tokens have been assigned a
// column role by horizontal position. Used for statements where debit and
// credit share identical formatting and only X coordinates tell them apart.
type PositionedRow struct {
	Text    string `json:"text"`
	Credit  string `json:"credit,omitempty"`
	Debit   string `json:"debit,omitempty"`
	Balance string `json:"balance,omitempty"`
}

// ExtractionResult is the pipeline's terminal value: either a header plus
// an ordered transaction list, or a bare error code from the taxonomy above.
type ExtractionResult struct {
	Header       DocumentHeader      `json:"Document Info"`
	Transactions []TransactionRecord `json:"Transactions"`
	Error        int                 `json:"error,omitempty"`
}

// Failed reports whether the result carries an error code instead of data.
func (r ExtractionResult) Failed() bool { return r.Error != 0 }
