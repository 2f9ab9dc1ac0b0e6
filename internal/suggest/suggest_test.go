package suggest

import (
	"context"
	"testing"

	"amunoz/movimientos/internal/logging"
	"amunoz/movimientos/internal/models"
	"amunoz/movimientos/internal/rules"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeModel struct {
	answers []string
	errs    []error
	prompts []string
	calls   int
}

func (m *fakeModel) Generate(_ context.Context, prompt string) (string, error) {
	m.prompts = append(m.prompts, prompt)
	i := m.calls
	m.calls++
	var err error
	if i < len(m.errs) {
		err = m.errs[i]
	}
	if err != nil {
		return "", err
	}
	return m.answers[i], nil
}

func unclassifiedTx(id int64, description string) models.Transaction {
	return models.Transaction{
		ID:          id,
		Description: description,
		Amount:      decimal.NewFromFloat(-12.50),
		Bank:        models.BankOpenBank,
		Category1:   models.CategoryUnclassified,
	}
}

func TestProposeAcceptsValidPair(t *testing.T) {
	model := &fakeModel{answers: []string{"Category1: Alimentación\nCategory2: Mercadona"}}
	s := New(model, rules.DefaultTables(), logging.NewMockLogger())

	pair, err := s.Propose(context.Background(), unclassifiedTx(1, "COMPRA RARA 123"))
	require.NoError(t, err)
	assert.Equal(t, models.CategoryGroceries, pair.Category1)
	assert.Equal(t, "Mercadona", pair.Category2)

	require.Len(t, model.prompts, 1)
	assert.Contains(t, model.prompts[0], "COMPRA RARA 123")
	assert.Contains(t, model.prompts[0], models.CategoryGroceries, "prompt carries the closed vocabulary")
}

func TestProposeRejectsPairOutsideVocabulary(t *testing.T) {
	model := &fakeModel{answers: []string{"Category1: Criptomonedas\nCategory2: Dogecoin"}}
	s := New(model, rules.DefaultTables(), logging.NewMockLogger())

	_, err := s.Propose(context.Background(), unclassifiedTx(1, "X"))
	assert.Error(t, err, "inventions outside the combination table are rejected")
}

func TestProposeRejectsUnparseableAnswer(t *testing.T) {
	model := &fakeModel{answers: []string{"I think this is probably groceries."}}
	s := New(model, rules.DefaultTables(), logging.NewMockLogger())

	_, err := s.Propose(context.Background(), unclassifiedTx(1, "X"))
	assert.Error(t, err)
}

func TestProposeAllSkipsFailures(t *testing.T) {
	model := &fakeModel{
		answers: []string{
			"Category1: Alimentación\nCategory2: Mercadona",
			"",
			"Category1: Ocio\nCategory2: Cine",
		},
		errs: []error{nil, assert.AnError, nil},
	}
	s := New(model, rules.DefaultTables(), logging.NewMockLogger())

	records := []models.Transaction{
		unclassifiedTx(1, "A"),
		unclassifiedTx(2, "B"),
		unclassifiedTx(3, "C"),
	}
	proposals := s.ProposeAll(context.Background(), records)

	require.Len(t, proposals, 2, "one failed answer never aborts the batch")
	assert.Equal(t, int64(1), proposals[0].TransactionID)
	assert.Equal(t, int64(3), proposals[1].TransactionID)
}

func TestParseAnswerEmptyCategory2(t *testing.T) {
	pair, err := parseAnswer("Category1: Nómina\nCategory2: empty")
	require.NoError(t, err)
	assert.Equal(t, "", pair.Category2)
}
