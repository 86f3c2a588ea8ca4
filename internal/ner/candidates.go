package ner

import (
	"regexp"
	"sort"
	"strings"
)

const maxEmbedCandidates = 10

var capsSpanRe = regexp.MustCompile(`[A-Z][A-Z0-9&\.\-/ ]{3,60}`)

var capsNoisePrefixes = []string{
	"DUITNOW", "INSTANT", "TRF", "TRANSFER",
	"PAYMENT", "GOODS", "ONLINE", "IBG", "FPX",
}

var duitnowInstantSplitRe = regexp.MustCompile(`(?i)DUITNOW[/\s]*INSTANT[/\s]*`)

// generateCandidates produces scored candidate phrases for embedding
// classification: whole lines, 2 to 6 token windows over the noise-free
// token stream, person-marker joins, and uppercase spans. Candidates are
// pre-scored heuristically and only the non-negative top ten survive.
func generateCandidates(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	lines := splitCleanLines(text)
	seen := map[string]bool{}
	var candidates []string
	add := func(c string) {
		c = strings.TrimSpace(c)
		key := strings.ToUpper(c)
		if len(c) >= 3 && !seen[key] && !isExcludedPhrase(key) {
			seen[key] = true
			candidates = append(candidates, c)
		}
	}

	// Whole lines with trailing reference tokens removed.
	for _, line := range lines {
		if len(line) < 3 || isMostlyDigits(line) || looksLikeAmountOrDate(line) {
			continue
		}
		up := strings.ToUpper(line)
		words := strings.Fields(up)
		if allNoise(words) {
			continue
		}
		parts := dropTrailingDigits(strings.Fields(line))
		add(strings.Join(parts, " "))
	}

	// Adjacent line joins when either side carries an org keyword, for
	// company names wrapped across lines.
	for i := 0; i+1 < len(lines); i++ {
		joinLines(add, lines[i], lines[i+1])
		if i+2 < len(lines) {
			joinLines(add, lines[i], lines[i+1], lines[i+2])
		}
	}

	// Sliding token windows over the noise-free stream.
	upper := strings.ToUpper(strings.Join(strings.Fields(text), " "))
	var tokens []string
	for _, t := range strings.Fields(upper) {
		if isMostlyDigits(t) || excludeKeywords[t] {
			continue
		}
		tokens = append(tokens, t)
	}
	for i := range tokens {
		for size := 2; size <= 6 && i+size <= len(tokens); size++ {
			chunk := strings.Join(tokens[i:i+size], " ")
			if len(chunk) >= 3 && !looksLikeAmountOrDate(chunk) {
				add(chunk)
			}
		}
	}

	// Person-marker joins: one word before the marker, up to three after.
	for _, line := range lines {
		lineTokens := strings.Fields(strings.ToUpper(line))
		for idx, tok := range lineTokens {
			if !personMarkers[tok] {
				continue
			}
			start := idx - 1
			if start < 0 {
				start = 0
			}
			end := idx + 4
			if end > len(lineTokens) {
				end = len(lineTokens)
			}
			if end-start >= 2 {
				add(strings.Join(lineTokens[start:end], " "))
			}
		}
	}

	// Uppercase spans with leading scheme noise peeled off.
	for _, m := range capsSpanRe.FindAllString(upper, -1) {
		chunk := strings.TrimSpace(m)
		if isExcludedPhrase(chunk) {
			continue
		}
		chunk = stripCapsNoise(chunk)
		if len(chunk) >= 3 && !isMostlyDigits(chunk) && !isExcludedPhrase(chunk) {
			add(chunk)
		}
	}

	return topCandidates(candidates)
}

func joinLines(add func(string), lines ...string) {
	var words []string
	orgHint := false
	for _, line := range lines {
		if len(line) < 3 {
			return
		}
		lw := strings.Fields(strings.ToUpper(line))
		if allNoise(lw) {
			return
		}
		if hasOrgKeyword(lw) || hasOrgFragment(lw) {
			orgHint = true
		}
		words = append(words, lw...)
	}
	if !orgHint {
		return
	}
	words = dropTrailingDigits(words)
	combined := strings.Join(words, " ")
	if len(combined) >= 5 {
		add(combined)
	}
}

func stripCapsNoise(chunk string) string {
	for changed := true; changed; {
		changed = false
		for _, kw := range capsNoisePrefixes {
			if strings.HasPrefix(chunk, kw+" ") || strings.HasPrefix(chunk, kw+"/") {
				chunk = strings.TrimSpace(chunk[len(kw)+1:])
				changed = true
				break
			}
		}
		if !changed && strings.Contains(chunk, "DUITNOW") && strings.Contains(chunk, "INSTANT") {
			parts := duitnowInstantSplitRe.Split(chunk, -1)
			if len(parts) > 1 {
				chunk = strings.TrimSpace(parts[len(parts)-1])
				changed = true
			}
		}
	}
	return chunk
}

// preScore ranks a candidate before embedding. Positive hints are org
// keywords, person markers, name shape, and mid length; boilerplate words
// and single tokens pull the score down.
func preScore(cand string) int {
	up := strings.ToUpper(cand)
	words := strings.Fields(up)
	score := 0

	if len(words) > 0 && excludeKeywords[words[0]] {
		score -= 15
	}
	if len(words) >= 2 && excludeKeywords[words[0]] && excludeKeywords[words[1]] {
		score -= 20
	}
	if len(words) == 1 {
		score -= 3
	}

	orgCount := 0
	for _, w := range words {
		if orgKeywords[w] {
			orgCount++
		}
	}
	if orgCount > 0 {
		score += 5
	}
	if orgCount >= 2 {
		score += 3
	}
	for _, w := range words {
		if personMarkers[w] {
			score += 4
			break
		}
	}
	if looksLikePersonName(up) {
		score += 3
	}

	excluded := 0
	for _, w := range words {
		if excludeKeywords[w] {
			excluded++
		}
	}
	score -= excluded * 3
	if len(words) > 0 && excluded*2 >= len(words) {
		score -= 10
	}

	if len(words) >= 2 && len(words) <= 6 {
		score += 2
	}
	if len(words) > 8 {
		score--
	}
	if vowelRe.MatchString(up) {
		score++
	}
	return score
}

func topCandidates(candidates []string) []string {
	type scored struct {
		score int
		cand  string
	}
	ranked := make([]scored, 0, len(candidates))
	for _, c := range candidates {
		ranked = append(ranked, scored{preScore(c), c})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	var out []string
	for _, r := range ranked {
		if r.score < 0 || len(out) >= maxEmbedCandidates {
			break
		}
		out = append(out, r.cand)
	}
	return out
}
