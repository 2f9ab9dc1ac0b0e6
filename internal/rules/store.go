package rules

import (
	"fmt"
	"os"
	"path/filepath"

	"amunoz/movimientos/internal/logging"
	"amunoz/movimientos/internal/models"

	"gopkg.in/yaml.v3"
)

// Standard rule file names inside the rules directory.
const (
	CategoriesFile    = "categories.yaml"
	MerchantRulesFile = "merchant_rules.yaml"
	TokenRulesFile    = "token_rules.yaml"
	PriorityRulesFile = "priority_rules.yaml"
	TransferRulesFile = "transfer_rules.yaml"
	PlacesFile        = "places.yaml"
	MerchantNamesFile = "merchants.yaml"
)

// Store loads rule tables from a rules directory, falling back to the
// built-in defaults for any file that is absent. Missing files are not
// errors; malformed files are.
type Store struct {
	dir    string
	logger logging.Logger
}

// NewStore creates a rule store rooted at dir. An empty dir means only the
// built-in defaults and the standard search locations are used.
func NewStore(dir string, logger logging.Logger) *Store {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Store{dir: dir, logger: logger}
}

// FindFile looks for a rule file in the configured directory and the
// standard locations (cwd, ./config, ~/.config/movimientos).
func (s *Store) FindFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err == nil {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{}
	if s.dir != "" {
		locations = append(locations, filepath.Join(s.dir, filename))
	}
	locations = append(locations,
		filename,
		filepath.Join("config", filename),
	)
	if homeDir, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(homeDir, ".config", "movimientos", filename))
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}
	return "", os.ErrNotExist
}

func (s *Store) readYAML(filename string, out interface{}) (bool, error) {
	path, err := s.FindFile(filename)
	if err != nil {
		s.logger.WithField("file", filename).Debug("Rule file not found, keeping defaults")
		return false, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("error reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("error parsing %s: %w", path, err)
	}
	return true, nil
}

type categoriesDoc struct {
	Categories []struct {
		Name          string        `yaml:"name"`
		Type          models.TxType `yaml:"type"`
		Subcategories []string      `yaml:"subcategories"`
	} `yaml:"categories"`
}

type merchantRulesDoc struct {
	Rules []MerchantRule `yaml:"rules"`
}

type tokenRulesDoc struct {
	Rules []TokenRule `yaml:"rules"`
}

type priorityRulesDoc struct {
	Rules []PriorityRule `yaml:"rules"`
}

type dictionaryDoc struct {
	Entries map[string]CategoryPair `yaml:"entries"`
}

// Load assembles the full table set: built-in defaults overlaid with
// whatever rule files exist in the rules directory.
func (s *Store) Load() (*Tables, error) {
	tables := DefaultTables()

	var cats categoriesDoc
	if found, err := s.readYAML(CategoriesFile, &cats); err != nil {
		return nil, err
	} else if found {
		combos := CombinationTable{}
		types := map[string]models.TxType{}
		for _, c := range cats.Categories {
			combos[c.Name] = c.Subcategories
			if c.Type != "" {
				types[c.Name] = c.Type
			}
		}
		tables.Combinations = combos
		tables.CategoryTypes = types
		s.logger.WithField("count", len(cats.Categories)).Debug("Loaded category vocabulary")
	}

	var merchants merchantRulesDoc
	if found, err := s.readYAML(MerchantRulesFile, &merchants); err != nil {
		return nil, err
	} else if found {
		tables.Merchant = merchants.Rules
	}

	var tokens tokenRulesDoc
	if found, err := s.readYAML(TokenRulesFile, &tokens); err != nil {
		return nil, err
	} else if found {
		tables.Token = tokens.Rules
	}

	var priority priorityRulesDoc
	if found, err := s.readYAML(PriorityRulesFile, &priority); err != nil {
		return nil, err
	} else if found {
		tables.Priority = priority.Rules
	}

	var transfer TransferRules
	if found, err := s.readYAML(TransferRulesFile, &transfer); err != nil {
		return nil, err
	} else if found {
		tables.Transfer = transfer
	}

	var places dictionaryDoc
	if found, err := s.readYAML(PlacesFile, &places); err != nil {
		return nil, err
	} else if found {
		tables.Places = places.Entries
	}

	var names dictionaryDoc
	if found, err := s.readYAML(MerchantNamesFile, &names); err != nil {
		return nil, err
	} else if found {
		tables.MerchantNames = names.Entries
	}

	s.logger.WithFields(
		logging.Field{Key: "merchant_rules", Value: len(tables.Merchant)},
		logging.Field{Key: "token_rules", Value: len(tables.Token)},
		logging.Field{Key: "priority_rules", Value: len(tables.Priority)},
	).Info("Rule tables loaded")

	return tables, nil
}
