package ner

import (
	"bufio"
	"hash/fnv"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
)

// WordVecEmbedder is the built-in offline embedding model: a hashed
// bag-of-words vector with character trigrams for fuzzy overlap and a
// small block of surface-shape features. It is fully deterministic and
// works without model files; when a packaged vectors file is present,
// its token vectors replace the hashed ones. Swap in a
// sentence-transformer backed Embedder for higher quality when a real
// model is available.
type WordVecEmbedder struct {
	vectors map[string][]float64
}

const (
	lexDim        = 128
	shapeDim      = 8
	trigramWeight = 0.3
	shapeWeight   = 0.6
)

var (
	defaultEmbedderOnce sync.Once
	defaultEmbedder     *WordVecEmbedder
)

// DefaultEmbedder returns the process-wide word-vector model.
func DefaultEmbedder() *WordVecEmbedder {
	defaultEmbedderOnce.Do(func() {
		defaultEmbedder = &WordVecEmbedder{}
	})
	return defaultEmbedder
}

// NewWordVecEmbedder returns a model that augments the hashed lexical
// block with packaged token vectors found in dir (vectors.txt, one token
// followed by 128 floats per line). A missing or unreadable file leaves
// the model purely hash based.
func NewWordVecEmbedder(dir string) *WordVecEmbedder {
	e := &WordVecEmbedder{}
	if dir == "" {
		return e
	}
	f, err := os.Open(filepath.Join(dir, "vectors.txt"))
	if err != nil {
		return e
	}
	defer f.Close()

	vectors := make(map[string][]float64)
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) != lexDim+1 {
			continue
		}
		vec := make([]float64, lexDim)
		valid := true
		for i, field := range fields[1:] {
			x, err := strconv.ParseFloat(field, 64)
			if err != nil {
				valid = false
				break
			}
			vec[i] = x
		}
		if valid {
			vectors[strings.ToUpper(fields[0])] = vec
		}
	}
	if len(vectors) > 0 {
		e.vectors = vectors
	}
	return e
}

func (e *WordVecEmbedder) Embed(texts []string) [][]float64 {
	out := make([][]float64, len(texts))
	for i, t := range texts {
		out[i] = e.embedPhrase(t)
	}
	return out
}

func (e *WordVecEmbedder) embedPhrase(text string) []float64 {
	v := make([]float64, lexDim+shapeDim)
	up := strings.ToUpper(strings.TrimSpace(text))
	tokens := strings.Fields(up)
	if len(tokens) == 0 {
		return v
	}

	for _, tok := range tokens {
		if vec, ok := e.vectors[tok]; ok {
			for i, x := range vec {
				v[i] += x
			}
		} else {
			addHashed(v, tok, 1.0)
		}
		for _, tri := range trigrams(tok) {
			addHashed(v, tri, trigramWeight)
		}
	}

	shape := shapeFeatures(tokens)
	for i, f := range shape {
		v[lexDim+i] = f * shapeWeight
	}

	norm := 0.0
	for _, x := range v {
		norm += x * x
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range v {
			v[i] /= norm
		}
	}
	return v
}

// addHashed folds a term into the lexical block with the hashing trick:
// one hash picks the slot, a second bit picks the sign so unrelated terms
// stay near-orthogonal.
func addHashed(v []float64, term string, weight float64) {
	h := fnv.New64a()
	h.Write([]byte(term))
	sum := h.Sum64()
	slot := int(sum % lexDim)
	sign := 1.0
	if (sum>>32)&1 == 1 {
		sign = -1.0
	}
	v[slot] += sign * weight
}

func trigrams(tok string) []string {
	if len(tok) < 3 {
		return nil
	}
	out := make([]string, 0, len(tok)-2)
	for i := 0; i+3 <= len(tok); i++ {
		out = append(out, tok[i:i+3])
	}
	return out
}

// shapeFeatures summarizes surface form: alphabetic purity, digit load,
// token geometry, and marker vocabulary. Phrases of the same kind (person
// names, org names, reference noise) cluster on these axes even without
// token overlap.
func shapeFeatures(tokens []string) [shapeDim]float64 {
	var f [shapeDim]float64

	allAlpha := 1.0
	digits, letters, vowels, masked := 0, 0, 0, 0
	totalLen := 0
	for _, tok := range tokens {
		totalLen += len(tok)
		pure := true
		for _, r := range tok {
			switch {
			case r >= '0' && r <= '9':
				digits++
				pure = false
			case r >= 'A' && r <= 'Z':
				letters++
				if strings.ContainsRune("AEIOU", r) {
					vowels++
				}
			default:
				pure = false
			}
		}
		if !pure {
			allAlpha = 0
		}
		if strings.Contains(tok, "XXX") {
			masked++
		}
	}

	f[0] = allAlpha
	f[1] = math.Min(float64(len(tokens))/8.0, 1.0)
	if digits+letters > 0 {
		f[2] = float64(digits) / float64(digits+letters)
	}
	if hasOrgKeyword(tokens) {
		f[3] = 1
	}
	for _, tok := range tokens {
		if personMarkers[tok] {
			f[4] = 1
			break
		}
	}
	f[5] = math.Min(float64(totalLen)/float64(len(tokens))/10.0, 1.0)
	if masked > 0 {
		f[6] = 1
	}
	if letters > 0 {
		f[7] = float64(vowels) / float64(letters)
	}
	return f
}
