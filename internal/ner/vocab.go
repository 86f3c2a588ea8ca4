package ner

import (
	"regexp"
	"strings"

	"github.com/cloudflare/ahocorasick"
)

// Vocabulary shared by the regex cascade and the embedding scorer. All sets
// operate on uppercased tokens.

var orgKeywords = map[string]bool{
	"SDN": true, "BHD": true, "SDN BHD": true, "BERHAD": true,
	"TRADING": true, "ENTERPRISE": true, "RESOURCES": true,
	"MARKETING": true, "SERVICES": true, "SERVICE": true,
	"HOLDINGS": true, "MANAGEMENT": true,
	"DISTRIBUTOR": true, "DISTRIBUTORS": true, "GLOBAL": true,
	"INDUSTRIES": true, "PLT": true,
	"SDN.": true, "BHD.": true, "BHD,": true, "SDN,": true,
	"CO.,LTD": true, "SUPPLIES": true,
	"PRIVATE": true, "P/L": true, "LTD": true, "LIMITED": true,
	"CAPITAL": true, "VENTURE": true, "GROUP": true,
	"CORPORATION": true, "CORP": true,
}

var personMarkers = map[string]bool{
	"BIN": true, "BINTI": true, "BT": true, "BTE": true,
	"A/L": true, "A/P": true,
}

var excludeKeywords = map[string]bool{
	"DUITNOW": true, "INSTANT": true, "TRF": true, "TRANSFER": true,
	"PAYMENT": true, "GOODS": true, "QR": true,
	"ONLINE": true, "IBG": true, "FPX": true, "DEBIT": true,
	"CREDIT": true, "CARD": true, "VIA": true, "CASH": true,
	"REF": true, "REFERENCE": true, "NO": true, "NO.": true,
	"A/C": true, "ACCOUNT": true, "BALANCE": true,
	"STATEMENT": true, "DATE": true, "FROM": true, "TO": true,
	"MISC": true, "DR": true, "CR": true, "CDM": true,
	"CHEQUE": true, "DEPOSIT": true, "WITHDRAWAL": true, "DEP": true,
	"JAN": true, "FEB": true, "MAR": true, "APR": true,
	"MAY": true, "JUN": true, "JUL": true, "AUG": true,
	"SEP": true, "OCT": true, "NOV": true, "DEC": true,
	"BULAN": true, "YEAR": true, "2023": true, "2024": true, "2025": true,
	"INV": true, "INVOICE": true, "BILL": true, "TRADE": true,
}

// Short bank mnemonics stamped into narration by the sending bank. Never
// part of a counterparty name.
var bankCodes = map[string]bool{
	"AMBG": true, "MBB": true, "PBB": true, "CIMB": true, "OCBC": true,
	"UOB": true, "AFFIN": true, "RHB": true, "HLB": true, "BSN": true,
	"AMBANK": true, "AGRO": true,
}

var excludePhrases = []string{
	"DUITNOW/INSTANT", "DUITNOW/INSTANT TRF", "DUITNOW INSTANT",
	"DUITNOW INSTANT TRF", "INSTANT TRF", "INSTANT TRANSFER",
	"GOODS PAYMENT", "TRADE BILL", "TRADE BILL TRANSFER",
	"CASH DEPOSIT", "CASH DEP", "CHEQUE DEPOSIT", "CDM CASH DEPOSIT",
}

// genericTerms are narration boilerplate that must never surface as a
// counterparty name on their own.
var genericTerms = []string{
	"DR", "CR", "CDM", "CASH DEPOSIT", "CASH DEP", "CHEQUE DEPOSIT", "CHEQUE",
	"DUITNOW", "INSTANT TRF", "DUITNOW/INSTANT TRF", "DUITNOW/INSTANT",
	"TRADE BILL", "TRADE BILL TRANSFER", "BILL TRANSFER",
	"TRANSFER", "PAYMENT", "DEPOSIT", "WITHDRAWAL",
	"MISC DR", "MISC CR", "MISC",
	"IBG", "FPX", "MYDEBIT", "ONLINE TRANSFER",
	"GOODS PAYMENT", "INSTANT TRANSFER",
}

var genericTermSet = func() map[string]bool {
	m := make(map[string]bool, len(genericTerms))
	for _, t := range genericTerms {
		m[t] = true
	}
	return m
}()

// depositPhrases flags deposit and trade-bill boilerplate anywhere inside a
// candidate. Matched as substrings over the uppercased text.
var depositPhrases = ahocorasick.NewStringMatcher([]string{
	"TRADE BILL", "CASH DEPOSIT", "CASH DEP", "CHEQUE DEPOSIT",
})

var (
	genericPrefixRe = regexp.MustCompile(`^(DR|CR|CDM|MISC)\s+`)
	referenceOnlyRe = regexp.MustCompile(`^[A-Z0-9]{8,}$`)
	vowelRe         = regexp.MustCompile(`[AEIOU]`)
	upperWordRe     = regexp.MustCompile(`^[A-Z]{2,}$`)
	amountShapeRe   = regexp.MustCompile(`^[\d,]+\.\d{2}$`)
	dateShapeRe     = regexp.MustCompile(`^\d{1,2}[-/]\d{1,2}([-/]\d{2,4})?$`)
	digitsOrMaskRe  = regexp.MustCompile(`^[0-9X]+$`)
)

// isGenericTerm reports whether an extracted name is narration boilerplate
// rather than a real counterparty.
func isGenericTerm(result string) bool {
	up := strings.ToUpper(strings.TrimSpace(result))
	if up == "" {
		return true
	}
	if genericTermSet[up] {
		return true
	}
	for _, term := range genericTerms {
		if strings.HasPrefix(up, term+" ") {
			return true
		}
	}
	words := strings.Fields(up)
	generic := 0
	for _, w := range words {
		if genericTermSet[w] || w == "DR" || w == "CR" || w == "TRANSFER" || w == "BILL" || w == "TRADE" {
			generic++
		}
	}
	if len(words) > 0 && generic*2 >= len(words) {
		return true
	}
	if genericPrefixRe.MatchString(up) {
		return true
	}
	if len(depositPhrases.Match([]byte(up))) > 0 {
		return true
	}
	compact := strings.ReplaceAll(up, " ", "")
	if referenceOnlyRe.MatchString(compact) && strings.ContainsAny(compact, "0123456789") {
		return true
	}
	return false
}

func isMostlyDigits(s string) bool {
	s = strings.NewReplacer(" ", "", "-", "", "/", "").Replace(s)
	return s != "" && digitsOrMaskRe.MatchString(s)
}

func looksLikeAmountOrDate(s string) bool {
	s = strings.TrimSpace(s)
	return amountShapeRe.MatchString(s) || dateShapeRe.MatchString(s)
}

// looksLikePersonName is a rough shape test for romanised person names:
// two to four purely alphabetic tokens with no org or boilerplate words.
func looksLikePersonName(up string) bool {
	tokens := strings.Fields(up)
	if len(tokens) < 2 || len(tokens) > 4 {
		return false
	}
	for _, t := range tokens {
		if orgKeywords[t] || excludeKeywords[t] {
			return false
		}
		if isMostlyDigits(t) {
			return false
		}
		if !upperWordRe.MatchString(t) {
			return false
		}
	}
	return true
}

func isExcludedPhrase(up string) bool {
	for _, phrase := range excludePhrases {
		if up == phrase || strings.HasPrefix(up, phrase) {
			return true
		}
	}
	return false
}
