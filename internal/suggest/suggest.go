// Package suggest asks Gemini for category proposals on unclassified
// records. Proposals are operator-reviewed hints; the classification cascade
// never consults this package.
package suggest

import (
	"context"
	"fmt"
	"strings"

	"amunoz/movimientos/internal/logging"
	"amunoz/movimientos/internal/models"
	"amunoz/movimientos/internal/rules"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Model generates one text completion. The production implementation is
// Gemini; tests inject canned responses.
type Model interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeminiModel wraps the Gemini API client.
type GeminiModel struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiModel creates the client. The API key is required; the suggest
// feature is disabled without one.
func NewGeminiModel(ctx context.Context, apiKey, modelName string) (*GeminiModel, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("no API key configured")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}
	return &GeminiModel{client: client, model: client.GenerativeModel(modelName)}, nil
}

func (m *GeminiModel) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := m.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from Gemini API")
	}
	return fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0]), nil
}

func (m *GeminiModel) Close() error {
	return m.client.Close()
}

// Proposal is one reviewed-to-be suggestion for an unclassified record.
type Proposal struct {
	TransactionID int64
	Description   string
	Merchant      string
	Pair          rules.CategoryPair
}

// Suggester turns unclassified records into category proposals constrained
// to the closed category vocabulary.
type Suggester struct {
	model  Model
	tables *rules.Tables
	logger logging.Logger
}

func New(model Model, tables *rules.Tables, logger logging.Logger) *Suggester {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Suggester{model: model, tables: tables, logger: logger}
}

// Propose asks the model for a category pair for one record. Answers
// outside the combination table are rejected, not coerced: a suggestion the
// vocabulary cannot express is worthless as a hint.
func (s *Suggester) Propose(ctx context.Context, tx models.Transaction) (rules.CategoryPair, error) {
	answer, err := s.model.Generate(ctx, s.prompt(tx))
	if err != nil {
		return rules.CategoryPair{}, err
	}

	pair, err := parseAnswer(answer)
	if err != nil {
		return rules.CategoryPair{}, err
	}
	if !s.tables.Combinations.Allows(pair.Category1, pair.Category2) {
		return rules.CategoryPair{}, fmt.Errorf("model proposed invalid pair %q/%q", pair.Category1, pair.Category2)
	}
	return pair, nil
}

// ProposeAll collects proposals for a set of records. Per-record failures
// are logged and skipped; one bad answer never aborts the review batch.
func (s *Suggester) ProposeAll(ctx context.Context, records []models.Transaction) []Proposal {
	var proposals []Proposal
	for _, tx := range records {
		pair, err := s.Propose(ctx, tx)
		if err != nil {
			s.logger.WithError(err).WithField("id", tx.ID).Warn("Suggestion skipped")
			continue
		}
		proposals = append(proposals, Proposal{
			TransactionID: tx.ID,
			Description:   tx.Description,
			Merchant:      tx.Merchant,
			Pair:          pair,
		})
	}
	return proposals
}

func (s *Suggester) prompt(tx models.Transaction) string {
	var pairs []string
	for _, cat1 := range s.tables.Combinations.Categories() {
		for _, cat2 := range s.tables.Combinations.Allowed(cat1) {
			if cat2 == "" {
				pairs = append(pairs, cat1)
			} else {
				pairs = append(pairs, cat1+" / "+cat2)
			}
		}
	}

	return fmt.Sprintf(`Categorize this Spanish bank transaction:
Description: %s
Amount: %s
Bank: %s
Date: %s

Pick exactly one category pair from this list, nothing else:
%s

Respond in this format:
Category1: [first-level category]
Category2: [second-level category, or empty]`,
		tx.Description, tx.Amount.StringFixed(2), tx.Bank, tx.DateString(),
		strings.Join(pairs, "\n"))
}

func parseAnswer(answer string) (rules.CategoryPair, error) {
	var pair rules.CategoryPair
	for _, line := range strings.Split(answer, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "Category1:"):
			pair.Category1 = strings.TrimSpace(strings.TrimPrefix(line, "Category1:"))
		case strings.HasPrefix(line, "Category2:"):
			pair.Category2 = strings.TrimSpace(strings.TrimPrefix(line, "Category2:"))
		}
	}
	if pair.Category1 == "" {
		return rules.CategoryPair{}, fmt.Errorf("no category in model answer")
	}
	if strings.EqualFold(pair.Category2, "empty") || pair.Category2 == "-" {
		pair.Category2 = ""
	}
	return pair, nil
}
