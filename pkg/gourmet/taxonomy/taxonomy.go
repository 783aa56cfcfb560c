package taxonomy

import (
	"strings"

	"github.com/cognicore/gourmet/pkg/gourmet/review"
)

// Group names for the sentiment word lists. Category groups use the
// review.Category names.
const (
	GroupPositive = "positive"
	GroupNegative = "negative"
)

// GeneralCategory owns keywords that appear in no group.
const GeneralCategory = "general"

// Group is one named word list of the keyword map.
type Group struct {
	Name  string
	Words []string
}

// KeywordMap is an ordered set of word lists. Declaration order matters:
// matches are reported in that order and a word shared by several groups
// is owned by the first one.
type KeywordMap struct {
	groups []Group
	index  map[string]int    // group name → position
	owner  map[string]string // word → first declaring group
}

// NewKeywordMap builds the map and its ownership index. Empty words are
// dropped. A repeated group name replaces the earlier word list in place.
func NewKeywordMap(groups []Group) *KeywordMap {
	m := &KeywordMap{
		index: make(map[string]int, len(groups)),
		owner: make(map[string]string),
	}
	for _, g := range groups {
		words := make([]string, 0, len(g.Words))
		for _, w := range g.Words {
			if w != "" {
				words = append(words, w)
			}
		}
		if i, ok := m.index[g.Name]; ok {
			m.groups[i].Words = words
			continue
		}
		m.index[g.Name] = len(m.groups)
		m.groups = append(m.groups, Group{Name: g.Name, Words: words})
	}
	for _, g := range m.groups {
		for _, w := range g.Words {
			if _, ok := m.owner[w]; !ok {
				m.owner[w] = g.Name
			}
		}
	}
	return m
}

// Groups returns the groups in declaration order.
func (m *KeywordMap) Groups() []Group {
	out := make([]Group, len(m.groups))
	copy(out, m.groups)
	return out
}

// Words returns the word list of a group, or nil if it is not declared.
func (m *KeywordMap) Words(name string) []string {
	i, ok := m.index[name]
	if !ok {
		return nil
	}
	return m.groups[i].Words
}

// Owner returns the group that first declares word.
func (m *KeywordMap) Owner(word string) (string, bool) {
	g, ok := m.owner[word]
	return g, ok
}

// OwnerOrGeneral is Owner with the "general" fallback used for reporting.
func (m *KeywordMap) OwnerOrGeneral(word string) string {
	if g, ok := m.owner[word]; ok {
		return g
	}
	return GeneralCategory
}

// CountMatches counts the entries of a group found as substrings of text.
// Each entry counts once however often it occurs.
func (m *KeywordMap) CountMatches(name, text string) int {
	return CountContained(m.Words(name), text)
}

// Matches returns every entry, across all groups, found in text. A word
// declared by two groups appears twice.
func (m *KeywordMap) Matches(text string) []string {
	var found []string
	for _, g := range m.groups {
		for _, w := range g.Words {
			if strings.Contains(text, w) {
				found = append(found, w)
			}
		}
	}
	return found
}

// CountContained counts list entries contained in text.
func CountContained(words []string, text string) int {
	n := 0
	for _, w := range words {
		if strings.Contains(text, w) {
			n++
		}
	}
	return n
}

// ContainsAny reports whether text contains any entry.
func ContainsAny(words []string, text string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

// Contained returns the entries found in text, in list order.
func Contained(words []string, text string) []string {
	var found []string
	for _, w := range words {
		if strings.Contains(text, w) {
			found = append(found, w)
		}
	}
	return found
}

// CategoryGroups is the fixed order in which category groups compete.
// Earlier entries win ties.
var CategoryGroups = []review.Category{
	review.Service,
	review.Price,
	review.Atmosphere,
	review.Location,
}

// BestCategory returns the category group with the most matches in text,
// or review.DefaultCategory when none matches.
func (m *KeywordMap) BestCategory(text string) review.Category {
	best := review.DefaultCategory
	bestCount := 0
	for _, cat := range CategoryGroups {
		if n := m.CountMatches(string(cat), text); n > bestCount {
			best, bestCount = cat, n
		}
	}
	return best
}
