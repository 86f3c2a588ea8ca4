package ner

import "strings"

// Rule-based overrides that run ahead of embedding scoring. Each returns ""
// when its shape does not apply.

var orgFragmentHints = []string{"SDN", "BHD", "PRIVATE", "P/L", "LTD", "CAPITAL", "VENTURE", "GROUP", "ENTERPRISE"}

func hasOrgFragment(words []string) bool {
	for _, w := range words {
		for _, hint := range orgFragmentHints {
			if strings.Contains(w, hint) {
				return true
			}
		}
	}
	return false
}

func hasOrgKeyword(words []string) bool {
	for _, w := range words {
		if orgKeywords[w] {
			return true
		}
	}
	return false
}

func allNoise(words []string) bool {
	for _, w := range words {
		if !excludeKeywords[w] && !isMostlyDigits(w) {
			return false
		}
	}
	return len(words) > 0
}

func stripNoiseWords(words []string) []string {
	var out []string
	for _, w := range words {
		if excludeKeywords[w] || isMostlyDigits(w) {
			continue
		}
		out = append(out, w)
	}
	return out
}

func splitCleanLines(text string) []string {
	text = strings.ReplaceAll(text, "|", "\n")
	var lines []string
	for _, ln := range strings.Split(text, "\n") {
		if ln = strings.TrimSpace(ln); ln != "" {
			lines = append(lines, ln)
		}
	}
	return lines
}

// extractMultilineCompany joins consecutive narration lines that look like
// parts of one company name, e.g. "EB VENTRA CAPITAL" followed by
// "PRIVATE P/L".
func extractMultilineCompany(text string) string {
	lines := splitCleanLines(strings.ToUpper(text))
	if len(lines) < 2 {
		return ""
	}

	type hit struct {
		index int
		line  string
	}
	var hits []hit
	for i, line := range lines {
		words := strings.Fields(line)
		if allNoise(words) {
			continue
		}
		if len(words) > 0 && excludeKeywords[words[0]] {
			continue
		}
		plausible := len(words) >= 2 && len(words) <= 6 &&
			!isMostlyDigits(line) && !hasExcludedWord(words)
		if hasOrgKeyword(words) || hasOrgFragment(words) || plausible {
			if kept := stripNoiseWords(words); len(kept) > 0 {
				hits = append(hits, hit{i, strings.Join(kept, " ")})
			}
		}
	}
	if len(hits) == 0 {
		return ""
	}

	if len(hits) >= 2 && hits[len(hits)-1].index-hits[0].index <= 3 {
		var parts []string
		for _, h := range hits {
			parts = append(parts, strings.Fields(h.line)...)
		}
		parts = dropBankCodes(parts)
		parts = dropTrailingDigits(parts)
		parts = stripNoiseWords(parts)
		parts = collapseRepeat(parts)
		result := strings.Join(parts, " ")
		if excludedRatioHigh(parts) {
			return ""
		}
		if len(result) >= 5 {
			return result
		}
	}

	if len(hits) == 1 {
		h := hits[0]
		if h.index+1 < len(lines) {
			next := stripNoiseWords(strings.Fields(lines[h.index+1]))
			if len(next) > 0 && (hasOrgKeyword(next) || hasOrgFragment(next)) {
				parts := append(strings.Fields(h.line), next...)
				parts = dropBankCodes(parts)
				parts = dropTrailingDigits(parts)
				result := strings.Join(parts, " ")
				if len(result) >= 5 {
					return result
				}
			}
		}
	}
	return ""
}

func hasExcludedWord(words []string) bool {
	for _, w := range words {
		if excludeKeywords[w] {
			return true
		}
	}
	return false
}

func excludedRatioHigh(words []string) bool {
	if len(words) == 0 {
		return false
	}
	n := 0
	for _, w := range words {
		if excludeKeywords[w] {
			n++
		}
	}
	return float64(n) >= float64(len(words))*0.3
}

func dropBankCodes(words []string) []string {
	var out []string
	for _, w := range words {
		if !bankCodes[w] {
			out = append(out, w)
		}
	}
	return out
}

func dropTrailingDigits(words []string) []string {
	for len(words) > 0 && isMostlyDigits(words[len(words)-1]) {
		words = words[:len(words)-1]
	}
	return words
}

// collapseRepeat removes a duplicated leading phrase, keeping one copy.
func collapseRepeat(words []string) []string {
	for block := len(words) / 2; block >= 2; block-- {
		if equalTokens(words[:block], words[block:2*block]) {
			return words[:block]
		}
	}
	return words
}

func equalTokens(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// extractRepeatedOrg handles narrations where the org name appears twice,
// the second occurrence being the complete one ("PBB PET BOSS CENTRE CASH
// AND CARRY" then "... SDN BHD"). The second block wins.
func extractRepeatedOrg(text string) string {
	tokens := strings.Fields(strings.ReplaceAll(strings.ToUpper(text), "|", " "))
	var cleaned []string
	for _, t := range tokens {
		t = strings.Trim(t, ",.")
		if t == "" || excludeKeywords[t] || bankCodes[t] {
			continue
		}
		if strings.ContainsAny(t, "0123456789") {
			continue
		}
		cleaned = append(cleaned, t)
	}
	if len(cleaned) < 4 {
		return ""
	}

	n := len(cleaned)
	for k := n / 2; k > 1; k-- {
		if 2*k > n {
			continue
		}
		if !equalTokens(cleaned[:k], cleaned[k:2*k]) {
			continue
		}
		base := append([]string{}, cleaned[k:2*k]...)
		tail := cleaned[2*k:]
		if containsToken(tail, "SDN") && containsToken(tail, "BHD") {
			base = append(base, "SDN", "BHD")
		}
		base = dropBankCodes(base)
		if len(base) >= 3 {
			return strings.Join(base, " ")
		}
	}
	return ""
}

func containsToken(words []string, t string) bool {
	for _, w := range words {
		if w == t {
			return true
		}
	}
	return false
}

// extractMarkerName finds Malay-style person names around BIN / BINTI /
// A/L / A/P markers, stepping over a noise word immediately before the
// marker ("AGRO FAUZIAH BINTI KAMARU" yields "FAUZIAH BINTI KAMARU").
func extractMarkerName(text string) string {
	tokens := strings.Fields(strings.ReplaceAll(strings.ToUpper(text), "|", " "))
	for i, tok := range tokens {
		if !personMarkers[tok] {
			continue
		}
		if i == 0 || i+1 >= len(tokens) {
			continue
		}
		before, after := tokens[i-1], tokens[i+1]
		if excludeKeywords[before] && i >= 2 && !excludeKeywords[tokens[i-2]] {
			before = tokens[i-2]
		}
		if isMostlyDigits(before) || isMostlyDigits(after) {
			continue
		}
		name := before + " " + tok + " " + after
		if len(name) >= 5 {
			return name
		}
	}
	return ""
}

// extractSimplePerson finds 2 to 4 word marker-free person names in clean
// contexts, bounded by numbers, transfer prepositions, or long references.
func extractSimplePerson(text string) string {
	tokens := strings.Fields(strings.ReplaceAll(strings.ToUpper(text), "|", " "))
	for i := 0; i < len(tokens)-1; i++ {
		for _, length := range []int{2, 3, 4} {
			if i+length > len(tokens) {
				continue
			}
			candidate := strings.Join(tokens[i:i+length], " ")
			if !looksLikePersonName(candidate) {
				continue
			}
			before, after := "", ""
			if i > 0 {
				before = tokens[i-1]
			}
			if i+length < len(tokens) {
				after = tokens[i+length]
			}
			if excludeKeywords[before] || excludeKeywords[after] {
				continue
			}
			beforeOK := before == "" || isMostlyDigits(before) ||
				before == "TO" || before == "FROM" || before == "A/C" || before == "A/" || before == "FR"
			afterOK := after == "" || isMostlyDigits(after) || len(after) > 10
			if beforeOK && afterOK {
				return candidate
			}
		}
	}
	return ""
}

// cleanCompanyName strips bank codes, boilerplate words, and duplicated
// phrases from an extracted company name. Returns "" when nothing real
// survives.
func cleanCompanyName(name string) string {
	up := strings.ToUpper(strings.TrimSpace(name))
	if up == "" {
		return ""
	}
	for _, phrase := range excludePhrases {
		if up == phrase || strings.HasPrefix(up, phrase) {
			return ""
		}
		if strings.Contains(up, phrase) && len(up) <= len(phrase)+5 {
			return ""
		}
	}

	words := strings.Fields(up)
	words = dropBankCodes(words)
	words = stripNoiseWords(words)
	words = dropExcludedPhraseRuns(words)
	if len(words) == 0 {
		return ""
	}

	if len(words) >= 4 {
		for block := min(4, len(words)/2); block >= 1; block-- {
			if 2*block > len(words) {
				continue
			}
			if equalTokens(words[:block], words[block:2*block]) {
				return strings.Join(words[:block], " ")
			}
		}
		for suffix := 1; suffix < min(5, len(words)/2); suffix++ {
			tail := words[len(words)-suffix:]
			for i := 0; i <= len(words)-suffix*2; i++ {
				if equalTokens(words[i:i+suffix], tail) {
					return strings.Join(words[:len(words)-suffix], " ")
				}
			}
		}
	}

	result := strings.Join(words, " ")
	if len(result) < 3 || isExcludedPhrase(result) {
		return ""
	}
	return result
}

// dropExcludedPhraseRuns removes multi-word boilerplate phrases embedded in
// a token stream, treating "/" inside a phrase as a word break.
func dropExcludedPhraseRuns(words []string) []string {
	var out []string
	for i := 0; i < len(words); {
		matched := false
		for _, phrase := range excludePhrases {
			pw := strings.Fields(strings.ReplaceAll(phrase, "/", " "))
			if i+len(pw) <= len(words) && equalTokens(words[i:i+len(pw)], pw) {
				i += len(pw)
				matched = true
				break
			}
		}
		if matched {
			continue
		}
		if strings.Contains(words[i], "/") && isExcludedPhrase(words[i]) {
			i++
			continue
		}
		out = append(out, words[i])
		i++
	}
	return out
}
