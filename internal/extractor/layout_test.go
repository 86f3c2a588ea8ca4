package extractor

import (
	"testing"
)

func TestBucketRows(t *testing.T) {
	words := []word{
		{x: 100, y: 50.5, text: "WORLD"},
		{x: 10, y: 50, text: "HELLO"},
		{x: 10, y: 80, text: "NEXT"},
	}
	rows := bucketRows(words, 3.0)
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if got := rowText(rows[0]); got != "HELLO WORLD" {
		t.Errorf("rows[0] = %q", got)
	}
	if got := rowText(rows[1]); got != "NEXT" {
		t.Errorf("rows[1] = %q", got)
	}
}

func TestBucketRowsTallBuckets(t *testing.T) {
	// A wrapped cell 20pt below the anchor stays in the same logical row
	// when the tolerance covers it.
	words := []word{
		{x: 10, y: 100, text: "01-06-2024"},
		{x: 140, y: 120, text: "WRAPPED SENDER"},
		{x: 10, y: 160, text: "02-06-2024"},
	}
	rows := bucketRows(words, reflexRowTolerance)
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if len(rows[0]) != 2 {
		t.Errorf("rows[0] has %d words", len(rows[0]))
	}
}

func TestAssignReflexColumns(t *testing.T) {
	bucket := []word{
		{x: 12, y: 100, text: "01-06-2024"},
		{x: 12, y: 110, text: "10:33:32"},
		{x: 90, y: 100, text: "IBG"},
		{x: 140, y: 100, text: "SYARIKAT MAJU"},
		{x: 140, y: 110, text: "JAYA SDN BHD"},
		{x: 200, y: 100, text: "SALARY"},
		{x: 360, y: 100, text: "200.00"},
		{x: 520, y: 100, text: "5,300.00"},
	}
	row := assignReflexColumns(bucket)

	// The date band catches the timestamp line of the row; only the first
	// token survives.
	if row.Date != "01-06-2024" {
		t.Errorf("Date = %q", row.Date)
	}
	if row.Description != "IBG" {
		t.Errorf("Description = %q", row.Description)
	}
	if row.Sender != "SYARIKAT MAJU JAYA SDN BHD" {
		t.Errorf("Sender = %q", row.Sender)
	}
	if row.Reference1 != "SALARY" {
		t.Errorf("Reference1 = %q", row.Reference1)
	}
	if row.AmountDebit != "200.00" {
		t.Errorf("AmountDebit = %q", row.AmountDebit)
	}
	if row.Balance != "5,300.00" {
		t.Errorf("Balance = %q", row.Balance)
	}
	if row.AmountCredit != "" {
		t.Errorf("AmountCredit = %q", row.AmountCredit)
	}
}

func TestFirstToken(t *testing.T) {
	if got := firstToken("01-06-2024 10:33:32"); got != "01-06-2024" {
		t.Errorf("firstToken = %q", got)
	}
	if got := firstToken("  "); got != "" {
		t.Errorf("firstToken on blank = %q", got)
	}
}
