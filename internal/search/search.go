package search

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"
	sahilm "github.com/sahilm/fuzzy"

	"github.com/keroda/watchdeck/internal/domain"
)

// FilterItem is one searchable title in the local filter index.
type FilterItem struct {
	Item  domain.CatalogItem
	Title string
}

// FilterResult is a match with highlight metadata.
type FilterResult struct {
	FilterItem
	MatchedIndexes []int // character positions that matched
	Score          int   // higher is better (sahilm convention)
}

// FilterIndex implements sahilm/fuzzy.Source for zero-allocation
// matching over pre-lowered titles.
type FilterIndex struct {
	items       []FilterItem
	lowerTitles []string
}

// String returns the lowercase title at index i (implements fuzzy.Source).
func (idx *FilterIndex) String(i int) string { return idx.lowerTitles[i] }

// Len returns the number of indexed items (implements fuzzy.Source).
func (idx *FilterIndex) Len() int { return len(idx.items) }

// Service maintains a local fuzzy filter index over catalog and
// library titles the user has seen this session.
type Service struct {
	logger *slog.Logger

	mu      sync.RWMutex
	index   *FilterIndex
	indexed map[string]bool // "media:id" already in the index
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		logger:  logger,
		index:   &FilterIndex{},
		indexed: make(map[string]bool),
	}
}

func itemKey(item domain.CatalogItem) string {
	return fmt.Sprintf("%s:%d", item.MediaType, item.ID)
}

// Index adds items to the filter index, skipping ones already present.
func (s *Service) Index(items []domain.CatalogItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	added := 0
	for _, item := range items {
		key := itemKey(item)
		if s.indexed[key] || item.Title == "" {
			continue
		}
		s.indexed[key] = true
		s.index.items = append(s.index.items, FilterItem{Item: item, Title: item.Title})
		s.index.lowerTitles = append(s.index.lowerTitles, strings.ToLower(item.Title))
		added++
	}
	if added > 0 {
		s.logger.Debug("indexed titles", "added", added, "total", s.index.Len())
	}
}

// Clear drops the whole index, e.g. on sign-out.
func (s *Service) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = &FilterIndex{}
	s.indexed = make(map[string]bool)
}

// Filter matches the query against the index and returns results best
// first, with matched character positions for highlighting.
func (s *Service) Filter(query string) []FilterResult {
	query = strings.TrimSpace(strings.ToLower(query))
	if query == "" {
		return nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	matches := sahilm.FindFrom(query, s.index)
	results := make([]FilterResult, 0, len(matches))
	for _, m := range matches {
		results = append(results, FilterResult{
			FilterItem:     s.index.items[m.Index],
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		})
	}
	return results
}

// Rank orders server search results by fuzzy distance to the query.
// Items the ranker cannot match keep their server order at the end.
func Rank(items []domain.CatalogItem, query string) []domain.CatalogItem {
	query = strings.TrimSpace(strings.ToLower(query))
	if query == "" || len(items) < 2 {
		return items
	}

	titles := make([]string, len(items))
	for i, item := range items {
		titles[i] = strings.ToLower(item.Title)
	}

	ranks := fuzzy.RankFindFold(query, titles)
	distance := make(map[string]int, len(ranks))
	for _, r := range ranks {
		if d, ok := distance[r.Target]; !ok || r.Distance < d {
			distance[r.Target] = r.Distance
		}
	}

	const unranked = 1 << 20
	dist := func(item domain.CatalogItem) int {
		if d, ok := distance[strings.ToLower(item.Title)]; ok {
			return d
		}
		return unranked
	}

	out := make([]domain.CatalogItem, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool { return dist(out[i]) < dist(out[j]) })
	return out
}
