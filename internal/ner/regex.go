package ner

import (
	"regexp"
	"strings"
)

// Regex cascade for counterparty extraction. Extractors run in a fixed
// order from the most specific narration shape to a last-resort fallback;
// the first hit that survives the generic-term filter wins.

var (
	duitnowDrRe        = regexp.MustCompile(`DR\s+\d+\s+([A-Z &\.]+)\s+FROM`)
	duitnowQRPaymentRe = regexp.MustCompile(`DUITNOW QR QR PAYMENT\s+([A-Z ]{3,40})`)
	duitnowQRRefRe     = regexp.MustCompile(`DUITNOW QR\s+([A-Z ]{3,40})\s+\d{20,}`)
	duitnowQRBareRe    = regexp.MustCompile(`DUITNOW QR\s+([A-Z ]{3,40})`)
	duitnowTrfLineRe   = regexp.MustCompile(`DUITNOW[\s/\-]*INSTANT\s*TRF`)
	duitnowCleanLineRe = regexp.MustCompile(`^[A-Z0-9 ()./-]+$`)
	duitnowOrgBlockRe  = regexp.MustCompile(`([A-Z][A-Z0-9 &\.']{2,}?\s+(?:SDN\.?\s*BHD?|ENTERPRISE|TRADING|SERVICES|RESOURCES|PLT))`)
	acFormatRe         = regexp.MustCompile(`A/C\s+([A-Z &\.]+)`)
	frAccountRe        = regexp.MustCompile(`FR\s+A/\s*\S+\s*\*?\s+([A-Z &\.]+)`)
	fpxPaymentRe       = regexp.MustCompile(`FPX PAYMENT\s+FR\s+A/\s*\S+\s*\*?\s+([A-Z][A-Z &\.]+(?:\s+[A-Z][A-Z &\.]+)*)`)
	mydebitViaRe       = regexp.MustCompile(`PAYMENT VIA MYDEBIT\s+([A-Z0-9 ()\-]+?)\s*(?:\*|PAYMENT VIA)`)
	mydebitLineRe      = regexp.MustCompile(`MYDEBIT.*?(?:\n|\s+)([A-Z0-9\- ]{3,40}\(?[A-Z0-9\- ]*\(?)`)
	mydebitAmountRe    = regexp.MustCompile(`MYDEBIT\s+[\d,.]+\s+[\d,.]+\s+([A-Z0-9\- ]{3,40})`)
	debitAdviceRe      = regexp.MustCompile(`DEBIT ADVICE\s+([A-Z0-9 &\.\-]+)\s*\*`)
	fundToAccountRe    = regexp.MustCompile(`FUND TRANSFER TO A/\s+([A-Z ]+?)\s*\*`)
	fundNameRefRe      = regexp.MustCompile(`FUND TRANSFER\s+([A-Z ]{3,40})\s+\d{8}[A-Z]{8,}`)
	fundNameLongRefRe  = regexp.MustCompile(`FUND TRANSFER\s+([A-Z ]{3,40})\s+[A-Z0-9]{20,}`)
	fundRefNameRe      = regexp.MustCompile(`FUND TRANSFER\s+[A-Z0-9]{8,}\s+([A-Z ]{2,}?)\s*\d{8}[A-Z0-9]{10,}`)
	fundJoinedRe       = regexp.MustCompile(`FUND TRANSFER\s+([A-Z ]{3,40})\s+(?:[A-Z0-9_ ]{5,40})?\s+[0-9]{8}[A-Z]{8,}`)
	fundRefOrgRe       = regexp.MustCompile(`FUND TRANSFER\s+[A-Z0-9]{8,}\s+([A-Z&. ]{5,60})\s+\d{8}[A-Z0-9]{10,}`)
	saleDebitRe        = regexp.MustCompile(`SALE DEBIT\s+([A-Z0-9 \-]+?)\s*\*`)
	maskedCardRe       = regexp.MustCompile(`XXXXXX\s*([A-Z &\.]+)`)
	cardNumberRe       = regexp.MustCompile(`\d{10,}&*\s*([A-Z &\.]+)`)
	klmAmountsRe       = regexp.MustCompile(`INSTANT TRANSFER AT KLM(?:\s+\d+\.\d{2}){0,2}\s+([A-Z][A-Z ]{2,59}?)\d{8}[A-Z0-9]{10,}`)
	klmRefNameRe       = regexp.MustCompile(`\b[A-Z0-9]{8,}\s+([A-Z ]{3,40})\s+\d{8}[A-Z0-9]{10,}`)
	klmQRNameRe        = regexp.MustCompile(`DUITNOW QR\s+.+?\s+([A-Z &\.]{3,60}?)\s*\d{8}[A-Z0-9]{10,}`)
	klmWordsRe         = regexp.MustCompile(`INSTANT TRANSFER AT KLM(?:\s+[A-Z0-9_\.]{3,})*?\s+((?:[A-Z]+\s+){2,})\d{8}[A-Z0-9]{10,}`)
	genericTailRe      = regexp.MustCompile(`(?:\d{4,}\s+)?([A-Z][A-Z &\.]{3,})$`)
	fallbackRefRe      = regexp.MustCompile(`([A-Z0-9 &\.\(\)\-]{5,})\s+[A-Z0-9]{10,}`)
)

func firstGroup(re *regexp.Regexp, text string) string {
	if m := re.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

func extractDuitnowDR(text string) string {
	return firstGroup(duitnowDrRe, text)
}

func extractDuitnowQR(text string) string {
	if !strings.Contains(text, "DUITNOW QR") {
		return ""
	}
	if s := firstGroup(duitnowQRPaymentRe, text); s != "" {
		return s
	}
	if s := firstGroup(duitnowQRRefRe, text); s != "" {
		return s
	}
	return firstGroup(duitnowQRBareRe, text)
}

// extractDuitnowBlock handles DuitNow instant transfers where the company
// name sits on its own line below the scheme boilerplate. Up to six lines
// after the marker are merged and scanned for an org-suffixed phrase.
func extractDuitnowBlock(text string) string {
	lines := strings.Split(strings.ReplaceAll(text, "|", " "), "\n")
	var clean []string
	for _, ln := range lines {
		if ln = strings.TrimSpace(ln); ln != "" {
			clean = append(clean, ln)
		}
	}
	for i, line := range clean {
		if !duitnowTrfLineRe.MatchString(line) {
			continue
		}
		end := i + 7
		if end > len(clean) {
			end = len(clean)
		}
		var buf []string
		for _, ln := range clean[i+1 : end] {
			if len(ln) < 3 || !duitnowCleanLineRe.MatchString(ln) {
				continue
			}
			if allNoise(strings.Fields(ln)) {
				continue
			}
			buf = append(buf, ln)
		}
		if s := firstGroup(duitnowOrgBlockRe, strings.Join(buf, " ")); s != "" {
			return titleWords(s)
		}
	}
	return ""
}

func extractAccountFormat(text string) string {
	return firstGroup(acFormatRe, text)
}

func extractFromAccount(text string) string {
	return firstGroup(frAccountRe, text)
}

func extractFPX(text string) string {
	return firstGroup(fpxPaymentRe, text)
}

func extractMydebitVia(text string) string {
	return firstGroup(mydebitViaRe, text)
}

func extractMydebitMerchant(text string) string {
	if s := firstGroup(mydebitLineRe, text); s != "" {
		return s
	}
	return firstGroup(mydebitAmountRe, text)
}

func extractDebitAdvice(text string) string {
	return firstGroup(debitAdviceRe, text)
}

func extractFundTransfer(text string) string {
	if !strings.Contains(text, "FUND TRANSFER") {
		return ""
	}
	for _, re := range []*regexp.Regexp{fundToAccountRe, fundNameRefRe, fundNameLongRefRe, fundRefNameRe} {
		if s := firstGroup(re, text); s != "" {
			return s
		}
	}
	joined := strings.ReplaceAll(text, "\n", " ")
	if s := firstGroup(fundJoinedRe, joined); s != "" {
		return s
	}
	return firstGroup(fundRefOrgRe, text)
}

func extractSaleDebit(text string) string {
	return firstGroup(saleDebitRe, text)
}

func extractMaskedCard(text string) string {
	return firstGroup(maskedCardRe, text)
}

func extractCardNumber(text string) string {
	return firstGroup(cardNumberRe, text)
}

func extractInstantTransfer(text string) string {
	if !strings.Contains(text, "INSTANT TRANSFER AT KLM") {
		return ""
	}
	for _, re := range []*regexp.Regexp{klmAmountsRe, klmRefNameRe, klmQRNameRe, klmWordsRe} {
		if s := firstGroup(re, text); s != "" {
			return s
		}
	}
	return ""
}

func extractGenericTail(text string) string {
	return firstGroup(genericTailRe, text)
}

func extractReferenceFallback(text string) string {
	return firstGroup(fallbackRefRe, text)
}

var cascade = []func(string) string{
	extractDuitnowDR,
	extractDuitnowQR,
	extractDuitnowBlock,
	extractAccountFormat,
	extractFromAccount,
	extractFPX,
	extractMydebitVia,
	extractMydebitMerchant,
	extractDebitAdvice,
	extractFundTransfer,
	extractSaleDebit,
	extractMaskedCard,
	extractCardNumber,
	extractInstantTransfer,
	extractGenericTail,
	extractReferenceFallback,
}

// extractByPattern runs the cascade over uppercased narration and returns
// the first non-generic hit, or "".
func extractByPattern(text string) string {
	text = strings.ToUpper(strings.TrimSpace(text))
	if text == "" {
		return ""
	}
	for _, fn := range cascade {
		result := fn(text)
		if result == "" || isGenericTerm(result) {
			continue
		}
		return result
	}
	return ""
}

// titleWords lowercases all but the first letter of each word, the way
// DuitNow org blocks are presented downstream.
func titleWords(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
