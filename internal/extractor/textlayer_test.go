package extractor

import (
	"strings"
	"testing"
)

func TestTextQuality(t *testing.T) {
	if q := textQuality([]string{"ACCOUNT STATEMENT 01/06/2024 1,234.56"}); q < 0.99 {
		t.Errorf("clean text quality = %f", q)
	}
	if q := textQuality([]string{"\x01\x02ÿþ\x7f\x00ÿþ\x01\x02"}); q > 0.2 {
		t.Errorf("binary garbage quality = %f", q)
	}
	if q := textQuality(nil); q != 0 {
		t.Errorf("empty input quality = %f", q)
	}
}

func TestContainsCommonWords(t *testing.T) {
	if !containsCommonWords([]string{"PENYATA AKAUN", "TARIKH"}) {
		t.Error("Malay statement vocabulary should count")
	}
	if containsCommonWords([]string{"lorem ipsum dolor sit amet"}) {
		t.Error("unrelated text should not count")
	}
}

func TestIsReadableText(t *testing.T) {
	page := strings.Repeat("ACCOUNT BALANCE 1,234.56 STATEMENT DATE 01/06/2024\n", 5)
	if !isReadableText([]string{page}) {
		t.Error("statement-like text should be readable")
	}

	// Too short.
	if isReadableText([]string{"bank"}) {
		t.Error("short text should be rejected")
	}

	// Long and ASCII-clean but with no statement vocabulary: the kind of
	// output identity-encoded fonts produce.
	junk := strings.Repeat("qzx wvy jkl mnp ", 20)
	if isReadableText([]string{junk}) {
		t.Error("text without statement vocabulary should be rejected")
	}
}
