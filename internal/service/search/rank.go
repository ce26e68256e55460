package search

import (
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/mediseek/medisearch-backend/internal/domain"
)

// maxResults caps the ranked output at a size suitable for a type-ahead list.
const maxResults = 24

// Relevance tiers. They are additive: a candidate matching a higher tier
// also matches the lower ones and accumulates all of their bonuses.
const (
	scoreExact    = 120
	scorePrefix   = 60
	scoreContains = 35
	scoreAlias    = 20

	// The alias tier only fires for queries of at least this many runes,
	// so single-character queries do not light up half the catalog.
	minAliasQueryRunes = 2
)

// scoredCandidate is the ranker's working entity: one per accepted raw row.
// The score is computed once at creation and never mutated.
type scoredCandidate struct {
	code         string
	name         string
	englishAlias string
	category     string
	score        int
}

// rank validates, deduplicates, scores, sorts, and truncates raw upstream
// rows into the final suggestion list. Rows failing the acceptance filter
// are silently skipped. Zero-score candidates are retained; they compete on
// the tie-break ordering and may surface when fewer than 24 candidates
// exist.
func rank(normQuery string, rows []domain.CandidateRow) []domain.DiseaseSearchItem {
	seen := make(map[string]struct{}, len(rows))
	candidates := make([]scoredCandidate, 0, len(rows))

	for _, row := range rows {
		code := strings.TrimSpace(row.Code)
		name := strings.TrimSpace(row.Name)
		if code == "" || name == "" {
			continue
		}
		if !domain.HasCodeShape(code) {
			continue
		}

		// First occurrence of a (code, name) pair wins; later duplicates
		// are dropped.
		key := code + "|" + name
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		alias := strings.TrimSpace(row.EnglishName)
		candidates = append(candidates, scoredCandidate{
			code:         code,
			name:         name,
			englishAlias: alias,
			category:     domain.CategoryDisease,
			score:        score(normQuery, code, name, alias),
		})
	}

	// Collators are not safe for concurrent use, so each call builds its
	// own. Korean collation orders the Hangul names the way the UI expects;
	// byte ordering would not.
	coll := collate.New(language.Korean)
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return coll.CompareString(candidates[i].name, candidates[j].name) < 0
	})

	if len(candidates) > maxResults {
		candidates = candidates[:maxResults]
	}

	items := make([]domain.DiseaseSearchItem, 0, len(candidates))
	for _, c := range candidates {
		item := domain.DiseaseSearchItem{
			Name:     c.name,
			Code:     c.code,
			Category: c.category,
			Aliases:  []string{},
		}
		if c.englishAlias != "" {
			item.Aliases = append(item.Aliases, c.englishAlias)
		}
		items = append(items, item)
	}
	return items
}

// score computes the additive relevance score of one candidate against the
// normalized query. Both code and name are normalized the same way as the
// query before comparison.
func score(normQuery, code, name, alias string) int {
	nName := domain.NormalizeText(name)
	nCode := domain.NormalizeText(code)

	total := 0
	if nName == normQuery || nCode == normQuery {
		total += scoreExact
	}
	if strings.HasPrefix(nName, normQuery) || strings.HasPrefix(nCode, normQuery) {
		total += scorePrefix
	}
	if strings.Contains(nName, normQuery) || strings.Contains(nCode, normQuery) {
		total += scoreContains
	}
	if alias != "" && utf8.RuneCountInString(normQuery) >= minAliasQueryRunes &&
		strings.Contains(domain.NormalizeText(alias), normQuery) {
		total += scoreAlias
	}
	return total
}
