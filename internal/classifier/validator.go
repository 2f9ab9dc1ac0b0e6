package classifier

import (
	"amunoz/movimientos/internal/logging"
	"amunoz/movimientos/internal/models"
	"amunoz/movimientos/internal/rules"
)

// Validator makes the closed-vocabulary invariant unconditional: every
// result leaving the orchestrator has a (cat1, cat2) pair present in the
// combination table, coerced into membership when a rule emitted something
// outside it.
type Validator struct {
	combinations  rules.CombinationTable
	categoryTypes map[string]models.TxType
	logger        logging.Logger

	// Coercions counts silently repaired pairs, surfaced in the batch
	// summary for rule-table maintenance.
	Coercions int
}

// NewValidator creates a validator over the loaded vocabulary.
func NewValidator(tables *rules.Tables, logger logging.Logger) *Validator {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Validator{
		combinations:  tables.Combinations,
		categoryTypes: tables.CategoryTypes,
		logger:        logger,
	}
}

// Validate returns the result with a guaranteed-valid category pair and a
// filled-in semantic type. Coercion order: "Otros" if allowed, else the
// empty subcategory, else the first allowed value.
func (v *Validator) Validate(result Result) Result {
	allowed, known := v.combinations[result.Category1]
	if !known || len(allowed) == 0 {
		// An empty subcategory list can arrive via a user categories.yaml;
		// treat it like an unknown category rather than indexing into it.
		v.coerce(&result, models.CategoryUnclassified, "")
		result.Type = ""
		return result
	}

	if !v.combinations.Allows(result.Category1, result.Category2) {
		switch {
		case v.combinations.Allows(result.Category1, models.CategoryOther):
			v.coerce(&result, result.Category1, models.CategoryOther)
		case v.combinations.Allows(result.Category1, ""):
			v.coerce(&result, result.Category1, "")
		default:
			v.coerce(&result, result.Category1, allowed[0])
		}
	}

	if result.Type == "" {
		result.Type = v.categoryTypes[result.Category1]
	}
	return result
}

func (v *Validator) coerce(result *Result, cat1, cat2 string) {
	v.Coercions++
	v.logger.WithFields(
		logging.Field{Key: "category1", Value: result.Category1},
		logging.Field{Key: "category2", Value: result.Category2},
		logging.Field{Key: "coerced1", Value: cat1},
		logging.Field{Key: "coerced2", Value: cat2},
		logging.Field{Key: "layer", Value: string(result.Layer)},
	).Info("Invalid category pair coerced")
	result.Category1 = cat1
	result.Category2 = cat2
}
