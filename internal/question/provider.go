// Package question serves the fixed, ordered question set an evaluation walks through.
package question

import (
	"context"
	"errors"
	"fmt"

	"github.com/lupa-app/lupa/pkg/model"
)

// DefaultLimit is the number of questions shown to a candidate.
const DefaultLimit = 6

var ErrDataUnavailable = errors.New("questions unavailable")

// Source lists questions of one audience ordered by order_index.
type Source interface {
	ListQuestions(ctx context.Context, audience model.Audience, limit int) ([]model.Question, error)
}

type Provider struct {
	source Source
	limit  int
}

func NewProvider(source Source, limit int) *Provider {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Provider{source: source, limit: limit}
}

// GetQuestions never returns an empty slice without an error: a store failure
// and an empty result both wrap ErrDataUnavailable.
func (p *Provider) GetQuestions(ctx context.Context, audience model.Audience) ([]model.Question, error) {
	qs, err := p.source.ListQuestions(ctx, audience, p.limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDataUnavailable, audience, err)
	}
	if len(qs) == 0 {
		return nil, fmt.Errorf("%w: no %s questions", ErrDataUnavailable, audience)
	}
	if len(qs) > p.limit {
		qs = qs[:p.limit]
	}
	return qs, nil
}
