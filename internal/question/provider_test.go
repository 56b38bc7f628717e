package question

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/lupa-app/lupa/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	questions []model.Question
	err       error

	gotAudience model.Audience
	gotLimit    int
}

func (s *stubSource) ListQuestions(_ context.Context, audience model.Audience, limit int) ([]model.Question, error) {
	s.gotAudience = audience
	s.gotLimit = limit
	return s.questions, s.err
}

func makeQuestions(n int) []model.Question {
	out := make([]model.Question, n)
	for i := range out {
		out[i] = model.Question{
			QID:        fmt.Sprintf("q%d", i+1),
			Text:       fmt.Sprintf("Pergunta %d", i+1),
			Audience:   model.AudiencePerson,
			Format:     model.AnswerFormatText,
			OrderIndex: i + 1,
		}
	}
	return out
}

func TestGetQuestions(t *testing.T) {
	src := &stubSource{questions: makeQuestions(6)}
	p := NewProvider(src, 6)

	qs, err := p.GetQuestions(context.Background(), model.AudiencePerson)
	require.NoError(t, err)
	assert.Len(t, qs, 6)
	assert.Equal(t, "q1", qs[0].QID)
	assert.Equal(t, model.AudiencePerson, src.gotAudience)
	assert.Equal(t, 6, src.gotLimit)
}

func TestGetQuestions_DefaultLimit(t *testing.T) {
	src := &stubSource{questions: makeQuestions(1)}
	p := NewProvider(src, 0)

	_, err := p.GetQuestions(context.Background(), model.AudienceCompany)
	require.NoError(t, err)
	assert.Equal(t, DefaultLimit, src.gotLimit)
	assert.Equal(t, model.AudienceCompany, src.gotAudience)
}

func TestGetQuestions_CapsOversizedResult(t *testing.T) {
	p := NewProvider(&stubSource{questions: makeQuestions(9)}, 3)

	qs, err := p.GetQuestions(context.Background(), model.AudiencePerson)
	require.NoError(t, err)
	assert.Len(t, qs, 3)
}

func TestGetQuestions_Unavailable(t *testing.T) {
	tests := []struct {
		name string
		src  *stubSource
	}{
		{name: "store error", src: &stubSource{err: errors.New("connection refused")}},
		{name: "no rows", src: &stubSource{}},
		{name: "empty slice", src: &stubSource{questions: []model.Question{}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qs, err := NewProvider(tt.src, 6).GetQuestions(context.Background(), model.AudiencePerson)
			assert.ErrorIs(t, err, ErrDataUnavailable)
			assert.Nil(t, qs)
		})
	}
}

func TestDefaults(t *testing.T) {
	for _, audience := range []model.Audience{model.AudiencePerson, model.AudienceCompany} {
		qs := Defaults(audience)
		require.Len(t, qs, DefaultLimit, audience)
		for i, q := range qs {
			assert.Equal(t, i+1, q.OrderIndex)
			assert.Equal(t, audience, q.Audience)
			assert.Equal(t, model.AnswerFormatText, q.Format)
			assert.NotEmpty(t, q.Text)
		}
	}
	assert.Nil(t, Defaults(model.AudienceCustom))
}
