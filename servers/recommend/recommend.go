// Package recommend is an MCP server for content-based item
// recommendations using hashed text embeddings and cosine similarity.
package recommend

import (
	"math"
	"sort"
	"sync"

	"github.com/bridgekit-ai/toolbridge/tools"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/bridgekit-ai/toolbridge", "recommend")

// Item is one stored catalog entry.
type Item struct {
	ID          string   `json:"item_id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category,omitempty"`
	Tags        []string `json:"tags,omitempty"`

	vector []float64
}

// Service is an in-memory vector catalog. It is safe for concurrent use.
type Service struct {
	embedder *Embedder

	mu    sync.RWMutex
	items map[string]*Item
	order []string
}

// NewService creates an empty catalog.
func NewService() *Service {
	return &Service{
		embedder: NewEmbedder(),
		items:    make(map[string]*Item),
	}
}

// Tools returns every tool of the service.
func (s *Service) Tools() []tools.IMCPTool {
	return []tools.IMCPTool{
		&AddItemTool{svc: s},
		&RecommendTool{svc: s},
		&SearchTool{svc: s},
		&ListItemsTool{svc: s},
		&DeleteItemTool{svc: s},
		&StatsTool{svc: s},
	}
}

// RegisterMCP registers every tool on the server.
func (s *Service) RegisterMCP(registrator tools.McpServerRegistrator) error {
	return tools.RegisterAll(registrator, s.Tools()...)
}

// upsert stores or replaces an item and reports whether it already existed.
func (s *Service) upsert(item *Item) bool {
	item.vector = s.embedder.Embed(item.Title + ". " + item.Description)

	s.mu.Lock()
	defer s.mu.Unlock()
	_, existed := s.items[item.ID]
	s.items[item.ID] = item
	if !existed {
		s.order = append(s.order, item.ID)
	}
	return existed
}

func (s *Service) get(id string) (*Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[id]
	return item, ok
}

func (s *Service) delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return false
	}
	delete(s.items, id)
	for i, have := range s.order {
		if have == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// scored pairs an item with its similarity to a query vector.
type scored struct {
	item       *Item
	similarity float64
}

// similarTo ranks the catalog against a query vector, most similar first.
// Ties break on insertion order so results are stable.
func (s *Service) similarTo(vector []float64, category string, exclude string) []scored {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]scored, 0, len(s.order))
	for _, id := range s.order {
		item := s.items[id]
		if id == exclude {
			continue
		}
		if category != "" && item.Category != category {
			continue
		}
		out = append(out, scored{
			item:       item,
			similarity: Cosine(vector, item.vector),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].similarity > out[j].similarity
	})
	return out
}

func (s *Service) snapshot(category string, limit int) ([]*Item, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Item
	for _, id := range s.order {
		item := s.items[id]
		if category != "" && item.Category != category {
			continue
		}
		if limit > 0 && len(out) >= limit {
			break
		}
		out = append(out, item)
	}
	return out, len(s.order)
}

func (s *Service) categoryCounts() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int)
	for _, item := range s.items {
		cat := item.Category
		if cat == "" {
			cat = "uncategorized"
		}
		counts[cat]++
	}
	return counts
}

// roundSimilarity keeps scores readable in tool output.
func roundSimilarity(v float64) float64 {
	return math.Round(v*10000) / 10000
}

// errItemNotFound builds the shared not-found error.
func errItemNotFound(id string) error {
	return errors.Errorf("item %q not found", id)
}
