package ner

import (
	"math"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Embedder maps phrases to fixed-width vectors. The default implementation
// is the local word-vector model in wordvec.go; a sentence-transformer
// service can be plugged in through the same interface.
type Embedder interface {
	Embed(texts []string) [][]float64
}

// Prototype phrases anchoring the three classes. Candidate phrases are
// scored by mean cosine similarity against each set.

var orgPrototypes = []string{
	"TNG DIGITAL SDN BHD",
	"JAYA GROCER SDN BHD",
	"MR DIY SDN BHD",
	"STARBUCKS COFFEE",
	"TESCO EXTRA",
	"JERRY DISTRIBUTORS SDN BHD",
	"GURUVAYURAPA ENTERPRISE",
	"LAZADA MALAYSIA",
	"SHOPEE PAY",
	"AEON BIG SDN BHD",
	"PET BOSS CENTRE",
	"MBB PET BOSS CENTRE CASH AND CARRY SDN BHD",
	"PASARAYA SEJATI TANJUNG GADING SDN BHD",
	"EB VENTRA CAPITAL PRIVATE P/L",
	"VENTRA CAPITAL PRIVATE LIMITED",
	"ABC CAPITAL PRIVATE P/L",
	"XYZ VENTURE CAPITAL PRIVATE LIMITED",
	"DEF GROUP PRIVATE P/L",
}

var personPrototypes = []string{
	"AHMAD BIN ALI",
	"SITI NURHALIZA BINTI TARUDIN",
	"FAUZIAH BINTI KAMARU",
	"MOHAMAD BIN HASSAN",
	"NOR AZIZAH BINTI ABDULLAH",
	"KESAVAN A/L GUNASEKAREN",
	"RAJESWARI A/P RAMASAMY",
	"CHIAN WEILON",
	"TAN AH QIONG",
	"LEE CHONG WEI",
	"LIM SIEW HONG",
	"WONG KAH MING",
	"CHEN WEI LING",
	"KUMAR A/L MURUGAN",
	"PRIYA A/P DEVI",
	"JOHN SMITH",
	"MARY TAN",
	"DAVID LEE",
	"SARAH LIM",
	"MICHAEL WONG",
	"LISA CHEN",
}

var noisePrototypes = []string{
	"ONLINE TRANSFER 1234567890",
	"DUITNOW INSTANT TRF 1234567890123456",
	"DuitNow/Instant Trf",
	"DuitNow/Instant",
	"FPX PAYMENT REF 1234567890123456",
	"CARD NO 123456XXXXXX9876",
	"REFERENCE 1029384756",
	"REF 998877665544332211",
	"PAYMENT VIA MYDEBIT 123456",
	"FUND TRANSFER TO A/C 123456789012",
	"IBG 1234567890",
	"BALANCE FROM LAST STATEMENT",
	"CLOSING BALANCE IN THIS STATEMENT",
}

const (
	personThreshold = 0.01
	orgThreshold    = 0.02
)

// classifier scores candidate phrases against the prototype sets.
// Prototype embeddings are computed once per process.
type classifier struct {
	embedder Embedder
	log      *zap.Logger

	once       sync.Once
	orgEmbs    [][]float64
	personEmbs [][]float64
	noiseEmbs  [][]float64
}

func newClassifier(embedder Embedder, log *zap.Logger) *classifier {
	return &classifier{embedder: embedder, log: log}
}

func (c *classifier) prototypes() ([][]float64, [][]float64, [][]float64) {
	c.once.Do(func() {
		c.orgEmbs = c.embedder.Embed(orgPrototypes)
		c.personEmbs = c.embedder.Embed(personPrototypes)
		c.noiseEmbs = c.embedder.Embed(noisePrototypes)
		c.log.Debug("prototype embeddings ready",
			zap.Int("org", len(c.orgEmbs)),
			zap.Int("person", len(c.personEmbs)),
			zap.Int("noise", len(c.noiseEmbs)))
	})
	return c.orgEmbs, c.personEmbs, c.noiseEmbs
}

// extract runs the enriched pipeline: rule overrides first, then candidate
// generation and prototype scoring. Returns "" when nothing clears the
// class threshold.
func (c *classifier) extract(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	if org := extractMultilineCompany(text); org != "" {
		if cleaned := cleanCompanyName(org); cleaned != "" {
			c.log.Debug("multiline company rule matched", zap.String("name", cleaned))
			return cleaned
		}
	}
	if org := extractRepeatedOrg(text); org != "" {
		if cleaned := cleanCompanyName(org); cleaned != "" {
			c.log.Debug("repeated org rule matched", zap.String("name", cleaned))
			return cleaned
		}
	}
	if person := extractMarkerName(text); person != "" {
		c.log.Debug("person marker rule matched", zap.String("name", person))
		return person
	}
	if person := extractSimplePerson(text); person != "" {
		c.log.Debug("simple person rule matched", zap.String("name", person))
		return person
	}

	candidates := generateCandidates(text)
	if len(candidates) == 0 {
		return ""
	}

	orgEmbs, personEmbs, noiseEmbs := c.prototypes()
	candEmbs := c.embedder.Embed(candidates)

	best, bestScore, bestIsPerson := "", math.Inf(-1), false
	for i, cand := range candidates {
		up := strings.ToUpper(cand)
		isPerson := isPersonShaped(up)

		simOrg := meanSimilarity(candEmbs[i], orgEmbs)
		simPerson := meanSimilarity(candEmbs[i], personEmbs)
		simNoise := meanSimilarity(candEmbs[i], noiseEmbs)

		score := simOrg - simNoise
		if isPerson {
			score = simPerson - simNoise
		}
		if score > bestScore {
			best, bestScore, bestIsPerson = cand, score, isPerson
		}
	}

	threshold := orgThreshold
	if bestIsPerson {
		threshold = personThreshold
	}
	if best == "" || bestScore <= threshold {
		return ""
	}

	up := strings.ToUpper(strings.TrimSpace(best))
	if isExcludedPhrase(up) || isGenericTerm(up) {
		c.log.Debug("best candidate rejected as boilerplate", zap.String("candidate", best))
		return ""
	}
	cleaned := cleanCompanyName(best)
	if cleaned == "" {
		return ""
	}
	c.log.Debug("embedding candidate selected",
		zap.String("name", cleaned),
		zap.Bool("person", bestIsPerson),
		zap.Float64("score", bestScore))
	return cleaned
}

func isPersonShaped(up string) bool {
	words := strings.Fields(up)
	for _, w := range words {
		if personMarkers[w] {
			return true
		}
	}
	if looksLikePersonName(up) {
		return true
	}
	if len(words) < 2 || len(words) > 4 {
		return false
	}
	for _, w := range words {
		if !upperWordRe.MatchString(w) || orgKeywords[w] || excludeKeywords[w] {
			return false
		}
	}
	return true
}

func meanSimilarity(v []float64, protos [][]float64) float64 {
	if len(protos) == 0 {
		return 0
	}
	sum := 0.0
	for _, p := range protos {
		sum += cosineSimilarity(v, p)
	}
	return sum / float64(len(protos))
}

func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	dot, na, nb := 0.0, 0.0, 0.0
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
