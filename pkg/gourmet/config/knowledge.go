package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/gourmet/pkg/gourmet/internalerr"
	"github.com/cognicore/gourmet/pkg/gourmet/review"
	"github.com/cognicore/gourmet/pkg/gourmet/taxonomy"
)

// KnowledgeFile is the YAML layout of an alternate knowledge base.
// Keywords is decoded as a node so group declaration order survives.
type KnowledgeFile struct {
	Keywords       yaml.Node                  `yaml:"keywords"`
	StrongNegative []string                   `yaml:"strong_negative"`
	WeakNegative   []string                   `yaml:"weak_negative"`
	Business       []string                   `yaml:"business"`
	Rules          map[string][]taxonomy.Rule `yaml:"rules"`
}

// LoadKnowledgeBase reads a knowledge base from YAML. An empty path returns
// the built-in tables. Sections missing from the file keep their built-in
// values.
func LoadKnowledgeBase(path string) (*taxonomy.KnowledgeBase, error) {
	if path == "" {
		return taxonomy.Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read knowledge base %s: %w", path, err)
	}
	kb, err := ParseKnowledgeBase(data)
	if err != nil {
		return nil, fmt.Errorf("knowledge base %s: %w", path, err)
	}
	return kb, nil
}

// ParseKnowledgeBase decodes and validates YAML knowledge-base content.
func ParseKnowledgeBase(data []byte) (*taxonomy.KnowledgeBase, error) {
	var file KnowledgeFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrInvalidConfig, err)
	}

	kb := taxonomy.Default()

	groups, err := orderedGroups(&file.Keywords)
	if err != nil {
		return nil, err
	}
	if len(groups) > 0 {
		kb.Keywords = taxonomy.NewKeywordMap(groups)
	}
	if file.StrongNegative != nil {
		kb.StrongNegative = file.StrongNegative
	}
	if file.WeakNegative != nil {
		kb.WeakNegative = file.WeakNegative
	}
	if file.Business != nil {
		kb.Business = file.Business
	}
	if file.Rules != nil {
		kb.Rules = make(taxonomy.Catalog, len(file.Rules))
		for cat, rules := range file.Rules {
			kb.Rules[review.Category(cat)] = rules
		}
	}

	if err := kb.Validate(); err != nil {
		return nil, err
	}
	return kb, nil
}

func orderedGroups(node *yaml.Node) ([]taxonomy.Group, error) {
	if node.Kind == 0 {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: keywords must be a mapping of group to word list (line %d)",
			internalerr.ErrInvalidConfig, node.Line)
	}

	groups := make([]taxonomy.Group, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		var words []string
		if err := val.Decode(&words); err != nil {
			return nil, fmt.Errorf("%w: keyword group %q: %v", internalerr.ErrInvalidConfig, key.Value, err)
		}
		groups = append(groups, taxonomy.Group{Name: key.Value, Words: words})
	}
	return groups, nil
}
