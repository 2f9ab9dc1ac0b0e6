// Package rules holds the externalized rule tables the classifier
// interprets: ordered merchant/token/priority rules, the category
// vocabulary with its cat1→cat2 whitelist, transfer heuristics, the
// enrichment dictionaries, and the exact-match table built from the
// historical ground-truth dataset. Rule authorship is a data-entry task;
// the engine is a generic ordered-rule interpreter.
package rules

import (
	"sort"

	"amunoz/movimientos/internal/models"
)

// CategoryPair is a (cat1, cat2) assignment with an optional explicit type.
// When Type is empty the category-level default applies.
type CategoryPair struct {
	Category1 string        `yaml:"category1"`
	Category2 string        `yaml:"category2,omitempty"`
	Type      models.TxType `yaml:"type,omitempty"`
}

// MerchantRule is one ordered (keyword, category) rule. Order is a
// correctness invariant: specific rules must precede generic ones, so a
// chain keyword is evaluated before a generic token like "BAR".
type MerchantRule struct {
	Keyword   string        `yaml:"keyword"`
	Category1 string        `yaml:"category1"`
	Category2 string        `yaml:"category2,omitempty"`
	Type      models.TxType `yaml:"type,omitempty"`
}

// TokenRule is a last-resort ordered keyword rule. WholeWord forces
// word-boundary matching, required for short collision-prone tokens.
type TokenRule struct {
	Keyword   string        `yaml:"keyword"`
	Category1 string        `yaml:"category1"`
	Category2 string        `yaml:"category2,omitempty"`
	Type      models.TxType `yaml:"type,omitempty"`
	WholeWord bool          `yaml:"whole_word,omitempty"`
}

// PriorityRule is an unconditional override evaluated before every other
// layer. All non-empty criteria must hold; the first matching rule is
// terminal. Date and Amount make one-off manual exceptions expressible as
// data instead of code.
type PriorityRule struct {
	Bank      string        `yaml:"bank,omitempty"`
	Contains  string        `yaml:"contains,omitempty"`
	Date      string        `yaml:"date,omitempty"`   // calendar day, 2006-01-02
	Amount    string        `yaml:"amount,omitempty"` // exact signed amount
	Category1 string        `yaml:"category1"`
	Category2 string        `yaml:"category2,omitempty"`
	Type      models.TxType `yaml:"type,omitempty"`
	Merchant  string        `yaml:"merchant,omitempty"`
	Note      string        `yaml:"note,omitempty"`
}

// CombinationTable maps category1 to its allowed category2 values, in
// whitelist order. Every pair any layer emits must be a member, or be
// coerced into membership by the validator.
type CombinationTable map[string][]string

// Allows reports whether cat2 is valid for cat1.
func (t CombinationTable) Allows(cat1, cat2 string) bool {
	allowed, ok := t[cat1]
	if !ok {
		return false
	}
	for _, v := range allowed {
		if v == cat2 {
			return true
		}
	}
	return false
}

// Categories returns the category1 vocabulary in sorted order.
func (t CombinationTable) Categories() []string {
	cats := make([]string, 0, len(t))
	for cat1 := range t {
		cats = append(cats, cat1)
	}
	sort.Strings(cats)
	return cats
}

// Allowed returns the whitelist of category2 values for cat1.
func (t CombinationTable) Allowed(cat1 string) []string {
	return t[cat1]
}

// TransferRules configures the transfer detector.
type TransferRules struct {
	// InternalKeywords are bank-specific "internal savings/move" phrases.
	InternalKeywords map[string][]string `yaml:"internal_keywords"`
	// P2PPatterns are bank-specific regexps (names, phone numbers) that
	// mark a peer-to-peer transfer even without the marker token.
	P2PPatterns map[string][]string `yaml:"p2p_patterns"`
	// LoanCounterparties are personal names whose transfers are loans.
	LoanCounterparties []string `yaml:"loan_counterparties"`
	// SharedMarkers identify movements against the shared household account.
	SharedMarkers []string `yaml:"shared_markers"`
	// OwnPhrases are explicit own-account phrases ("TRASPASO A CUENTA PROPIA").
	OwnPhrases []string `yaml:"own_phrases"`
	// OwnIBANs is the known list of the user's own account numbers.
	OwnIBANs []string `yaml:"own_ibans"`
	// HolderNames are legal-name variants of the account holder.
	HolderNames []string `yaml:"holder_names"`
	// GenericKeywords mark a transfer of unknown counterparty; matches fall
	// through to the "Externa" verdict.
	GenericKeywords []string `yaml:"generic_keywords"`
}

// Tables bundles every loaded rule table the classifier consumes.
type Tables struct {
	Priority      []PriorityRule
	Merchant      []MerchantRule
	Token         []TokenRule
	Combinations  CombinationTable
	CategoryTypes map[string]models.TxType
	Transfer      TransferRules
	// Places is the place-enrichment dictionary keyed by exact merchant name.
	Places map[string]CategoryPair
	// MerchantNames is the full-name merchant dictionary.
	MerchantNames map[string]CategoryPair
	// ExactMatch maps original descriptions to their historical category.
	ExactMatch map[string]CategoryPair
}

// TypeFor returns the semantic type for a category pair: the pair's explicit
// type when set, otherwise the category1 default.
func (t *Tables) TypeFor(pair CategoryPair) models.TxType {
	if pair.Type != "" {
		return pair.Type
	}
	return t.CategoryTypes[pair.Category1]
}
