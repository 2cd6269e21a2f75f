package dictionary

import (
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/tom-bartk/tuicub-server/internal/tile"
)

const defaultCacheSize = 10_000

// Service answers tileset validity/value queries against a Dictionary,
// memoizing both by canonical tileset key in two bounded LRU caches
// (§4.2). Both caches are safe for concurrent reads and writes; the
// underlying Dictionary is read-only after Build, so the whole Service is
// safe to share across request-handling goroutines.
type Service struct {
	dict          *Dictionary
	validityCache *lru.Cache[string, bool]
	valuesCache   *lru.Cache[string, int]
}

// NewService builds a Service over dict with the default ~10k-entry
// caches.
func NewService(dict *Dictionary) *Service {
	return NewServiceWithCacheSize(dict, defaultCacheSize)
}

// NewServiceWithCacheSize is NewService with an explicit cache capacity,
// mainly for tests that want to exercise eviction.
func NewServiceWithCacheSize(dict *Dictionary, cacheSize int) *Service {
	validity, err := lru.New[string, bool](cacheSize)
	if err != nil {
		panic(err)
	}
	values, err := lru.New[string, int](cacheSize)
	if err != nil {
		panic(err)
	}
	return &Service{dict: dict, validityCache: validity, valuesCache: values}
}

func cacheKey(ts tile.Tileset) string {
	ids := ts.Tiles()
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}

// IsValid reports whether ts is a legal group or run, accounting for
// jokers as wildcards (§4.2).
func (s *Service) IsValid(ts tile.Tileset) bool {
	key := cacheKey(ts)
	if cached, ok := s.validityCache.Get(key); ok {
		return cached
	}

	result := s.isValid(ts)
	s.validityCache.Add(key, result)
	return result
}

// ValueOf returns the opening-meld scoring value of ts: 0 if invalid,
// otherwise the sum of face values, maximized over joker assignments
// (§4.2).
func (s *Service) ValueOf(ts tile.Tileset) int {
	key := cacheKey(ts)
	if cached, ok := s.valuesCache.Get(key); ok {
		return cached
	}

	if !s.IsValid(ts) {
		s.valuesCache.Add(key, 0)
		return 0
	}

	result := s.valueOf(ts)
	s.valuesCache.Add(key, result)
	return result
}

func (s *Service) isValid(ts tile.Tileset) bool {
	if ts.JokerCount() == 0 {
		return s.dict.Contains(ts.Tiles())
	}
	return s.firstMatch(ts) != nil
}

func (s *Service) valueOf(ts tile.Tileset) int {
	if ts.JokerCount() == 0 {
		return tilesetValue(ts.Tiles())
	}

	best := -1
	for _, candidate := range s.matches(ts) {
		v := tilesetValue(candidate)
		if v > best {
			best = v
		}
	}
	if best < 0 {
		return 0
	}
	return best
}

// matches returns every dictionary entry D such that |D| = |R|+k (R =
// ts without jokers, k = joker count) and R is a subset of D.
func (s *Service) matches(ts tile.Tileset) [][]int {
	withoutJokers := ts.WithoutJokers()
	need := ts.Len()

	var out [][]int
	for _, candidate := range s.dict.EntriesOfSize(need) {
		if containsAll(candidate, withoutJokers.Tiles()) {
			out = append(out, candidate)
		}
	}
	return out
}

func (s *Service) firstMatch(ts tile.Tileset) []int {
	withoutJokers := ts.WithoutJokers()
	need := ts.Len()

	for _, candidate := range s.dict.EntriesOfSize(need) {
		if containsAll(candidate, withoutJokers.Tiles()) {
			return candidate
		}
	}
	return nil
}

func containsAll(haystack, needles []int) bool {
	set := make(map[int]struct{}, len(haystack))
	for _, id := range haystack {
		set[id] = struct{}{}
	}
	for _, n := range needles {
		if _, ok := set[n]; !ok {
			return false
		}
	}
	return true
}

// tilesetValue sums (tile % 13) + 1 over every tile id, the scoring
// formula used for both plain and joker-resolved tilesets (§4.2).
func tilesetValue(ids []int) int {
	total := 0
	for _, id := range ids {
		total += (id % 13) + 1
	}
	return total
}
