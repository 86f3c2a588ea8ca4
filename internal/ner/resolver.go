// Package ner extracts counterparty names (merchants, companies, persons)
// from bank statement narration. Two stages are available: a regex cascade
// tuned to known narration shapes, and an enriched path that classifies
// candidate phrases against org, person, and noise prototypes with an
// embedding model. Both stages return "" rather than an error when no name
// can be found.
package ner

import (
	"strings"

	"go.uber.org/zap"
)

// Resolver is the counterparty name extractor handed to statement parsers.
type Resolver struct {
	log *zap.Logger
	cls *classifier
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithEmbedder replaces the built-in word-vector model.
func WithEmbedder(e Embedder) Option {
	return func(r *Resolver) {
		r.cls = newClassifier(e, r.log)
	}
}

// WithModelDir loads packaged token vectors from dir into the word-vector
// model. A directory without a vectors file behaves like the default.
func WithModelDir(dir string) Option {
	return func(r *Resolver) {
		r.cls = newClassifier(NewWordVecEmbedder(dir), r.log)
	}
}

// NewResolver builds a Resolver using the built-in embedder unless
// overridden.
func NewResolver(log *zap.Logger, opts ...Option) *Resolver {
	r := &Resolver{
		log: log,
		cls: newClassifier(DefaultEmbedder(), log),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve runs the regex cascade only. Returns "" when no narration shape
// matches or every match is generic boilerplate.
func (r *Resolver) Resolve(text string) string {
	return strings.TrimSpace(extractByPattern(text))
}

// ResolveEnriched tries the embedding classifier first and falls back to
// the regex cascade. It never fails; a miss is "".
func (r *Resolver) ResolveEnriched(text string) string {
	if name := r.cls.extract(text); name != "" {
		return strings.TrimSpace(name)
	}
	if name := extractByPattern(text); name != "" {
		r.log.Debug("embedding pass empty, regex cascade matched", zap.String("name", name))
		return strings.TrimSpace(name)
	}
	return ""
}
