package parser

import (
	"testing"

	"github.com/transmatch/transmatch/internal/models"
)

const maybankFirstPage = `Malayan Banking Berhad (3813-K)
Menara Maybank 100 Jalan Tun Perak
MR / ENCIK AHMAD BIN ALI
NO 12 JALAN MAWAR 3
TAMAN SERI INDAH
81200 JOHOR BAHRU

STATEMENT DATE : 30/06/24
ACCOUNT NUMBER : 5123-9288-1234
`

const maybankBody = `STATEMENT DATE : 30/06/24
TARIKH MASUK
ENTRY DATE    DESCRIPTION
STATEMENT BALANCE
01/06 SALARY CREDIT 2,500.00+ 3,500.00 MBB COMPANY PAYROLL
02/06 SVG GIRO 100.00- 3,400.00
03/06 CASH DEPOSIT 200.00 3,600.00
ATM KL SENTRAL
ENDING BALANCE : 3,600.00
`

func TestMaybankHeader(t *testing.T) {
	p, err := New(models.BankMaybank, stubResolver{})
	if err != nil {
		t.Fatal(err)
	}
	h := p.Header(maybankFirstPage)

	if h.BankName != "Malayan Banking Berhad" {
		t.Errorf("BankName = %q", h.BankName)
	}
	if h.BankRegistrationNo != "Malayan Banking Berhad (3813-K)" {
		t.Errorf("BankRegistrationNo = %q", h.BankRegistrationNo)
	}
	if h.BankAddress != "Menara Maybank 100 Jalan Tun Perak" {
		t.Errorf("BankAddress = %q", h.BankAddress)
	}
	if h.CustomerName != "MR / ENCIK AHMAD BIN ALI" {
		t.Errorf("CustomerName = %q", h.CustomerName)
	}
	if h.CustomerAddress != "NO 12 JALAN MAWAR 3 TAMAN SERI INDAH 81200 JOHOR BAHRU" {
		t.Errorf("CustomerAddress = %q", h.CustomerAddress)
	}
	if h.StatementDate != "30/06/24" {
		t.Errorf("StatementDate = %q", h.StatementDate)
	}
	if h.AccountNumber != "512392881234" {
		t.Errorf("AccountNumber = %q", h.AccountNumber)
	}
}

func TestMaybankTransactions(t *testing.T) {
	p, err := New(models.BankMaybank, stubResolver{})
	if err != nil {
		t.Fatal(err)
	}
	records, err := p.Transactions(maybankBody)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}

	// Signed credit with trailing narration.
	r := records[0]
	if r.Date != "01/06/24" || r.Description != "SALARY CREDIT" {
		t.Errorf("record 0: date %q description %q", r.Date, r.Description)
	}
	if r.DescriptionOther != "MBB COMPANY PAYROLL" {
		t.Errorf("record 0: other %q", r.DescriptionOther)
	}
	if r.Credit.String() != "2500" || !r.Debit.IsZero() {
		t.Errorf("record 0: credit %s debit %s", r.Credit, r.Debit)
	}
	if r.Balance.String() != "3500" {
		t.Errorf("record 0: balance %s", r.Balance)
	}

	// Signed debit, no trailing narration.
	r = records[1]
	if r.Debit.String() != "100" || !r.Credit.IsZero() {
		t.Errorf("record 1: credit %s debit %s", r.Credit, r.Debit)
	}
	if r.Balance.String() != "3400" {
		t.Errorf("record 1: balance %s", r.Balance)
	}

	// Unsigned amount classified by the rising balance; wrapped narration
	// regrouped onto the row.
	r = records[2]
	if r.Credit.String() != "200" || !r.Debit.IsZero() {
		t.Errorf("record 2: credit %s debit %s", r.Credit, r.Debit)
	}
	if r.DescriptionOther != "ATM KL SENTRAL" {
		t.Errorf("record 2: other %q", r.DescriptionOther)
	}
}

func TestRegroupByDate(t *testing.T) {
	lines := []string{
		"HEADER LINE",
		"01/06 FIRST ROW",
		"wrapped tail",
		"02/06 SECOND ROW",
	}
	rows := regroupByDate(lines, maybankRowStartRe)
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0] != "01/06 FIRST ROW wrapped tail" {
		t.Errorf("rows[0] = %q", rows[0])
	}
	if rows[1] != "02/06 SECOND ROW" {
		t.Errorf("rows[1] = %q", rows[1])
	}
}
