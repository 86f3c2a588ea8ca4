package ner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractMultilineCompany(t *testing.T) {
	text := "MAY 2024 PAYMENT\nYOR406070377C01\nEB VENTRA CAPITAL\nPRIVATE P/L"
	got := extractMultilineCompany(text)
	assert.Contains(t, got, "EB VENTRA CAPITAL")
	assert.Contains(t, got, "P/L")
}

func TestExtractRepeatedOrgKeepsSecondBlock(t *testing.T) {
	text := "PBB PET BOSS CENTRE CASH AND CARRY PBB PET BOSS CENTRE CASH AND CARRY SDN BHD"
	got := extractRepeatedOrg(text)
	// CASH is transaction vocabulary and is stripped before block matching.
	assert.Equal(t, "PET BOSS CENTRE AND CARRY SDN BHD", got)
}

func TestExtractMarkerName(t *testing.T) {
	cases := map[string]string{
		"TRF 5123928 FAUZIAH BINTI KAMARU 20240601":   "FAUZIAH BINTI KAMARU",
		"KESAVAN A/L GUNASEKAREN":                     "KESAVAN A/L GUNASEKAREN",
		"AGRO FAUZIAH BINTI KAMARU":                   "FAUZIAH BINTI KAMARU",
		"ONLINE TRANSFER 1234567890":                  "",
	}
	for text, want := range cases {
		assert.Equal(t, want, extractMarkerName(text), "input %q", text)
	}
}

func TestExtractSimplePerson(t *testing.T) {
	got := extractSimplePerson("5123928818 CHIAN WEILON 20240601443199")
	assert.Equal(t, "CHIAN WEILON", got)

	// Noise context must not produce a name.
	assert.Empty(t, extractSimplePerson("DUITNOW INSTANT TRF REF"))
}

func TestCleanCompanyName(t *testing.T) {
	cases := map[string]string{
		"AMBG GURUVAYURAPA ENTERPRISE AMBG GURUVAYURAPA ENTERPRISE": "GURUVAYURAPA ENTERPRISE",
		"DUITNOW/INSTANT":          "",
		"RHB TK MEDICAL SUPPLIES":  "TK MEDICAL SUPPLIES",
		"JERRY DISTRIBUTORS SDN BHD": "JERRY DISTRIBUTORS SDN BHD",
		"": "",
	}
	for in, want := range cases {
		assert.Equal(t, want, cleanCompanyName(in), "input %q", in)
	}
}

func TestGenerateCandidatesCapsAndWindows(t *testing.T) {
	text := "DUITNOW/INSTANT TRF\nJERRY DISTRIBUTORS SDN BHD\n5123928818"
	cands := generateCandidates(text)
	assert.NotEmpty(t, cands)
	assert.LessOrEqual(t, len(cands), maxEmbedCandidates)

	found := false
	for _, c := range cands {
		if c == "JERRY DISTRIBUTORS SDN BHD" {
			found = true
		}
		assert.False(t, isExcludedPhrase(c), "candidate %q is boilerplate", c)
	}
	assert.True(t, found, "expected full company line among candidates: %v", cands)
}

func TestPreScoreOrdering(t *testing.T) {
	org := preScore("JERRY DISTRIBUTORS SDN BHD")
	person := preScore("FAUZIAH BINTI KAMARU")
	noise := preScore("MISC DR")
	single := preScore("JERRY")

	assert.Greater(t, org, noise)
	assert.Greater(t, person, noise)
	assert.Greater(t, org, single)
	assert.Negative(t, noise)
}
