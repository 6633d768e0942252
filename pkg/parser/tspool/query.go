package tspool

import (
	"errors"
	"fmt"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/specvital/assert-lsp/pkg/domain"
)

var (
	// ErrInvalidQuery is returned when a query fails to compile for a grammar.
	ErrInvalidQuery = errors.New("tspool: invalid query")
	// ErrUnsupportedLanguage is returned for languages without a grammar.
	ErrUnsupportedLanguage = errors.New("tspool: unsupported language")
)

// Capture is a single named node of a match.
type Capture struct {
	Name string
	Node *sitter.Node
}

// QueryResult contains the captures of one predicate-satisfying match,
// in the order tree-sitter reported them.
type QueryResult struct {
	Captures []Capture
}

// Find returns the first node captured under name.
func (r QueryResult) Find(name string) *sitter.Node {
	for _, c := range r.Captures {
		if c.Name == name {
			return c.Node
		}
	}
	return nil
}

type queryCacheKey struct {
	lang     domain.Language
	queryStr string
}

type cachedQuery struct {
	once  sync.Once
	query *sitter.Query
	err   error
}

var queryCache sync.Map

func getCachedQuery(lang domain.Language, queryStr string) (*sitter.Query, error) {
	key := queryCacheKey{
		lang:     lang,
		queryStr: queryStr,
	}

	val, _ := queryCache.LoadOrStore(key, &cachedQuery{})
	cached, ok := val.(*cachedQuery)
	if !ok {
		return nil, fmt.Errorf("invalid cache entry type")
	}

	cached.once.Do(func() {
		grammar := GetLanguage(lang)
		if grammar == nil {
			cached.err = fmt.Errorf("%w: %q", ErrUnsupportedLanguage, lang)
			return
		}
		cached.query, cached.err = sitter.NewQuery([]byte(queryStr), grammar)
	})

	return cached.query, cached.err
}

// Compile compiles queryStr for lang, reusing a cached compilation.
func Compile(lang domain.Language, queryStr string) error {
	if _, err := getCachedQuery(lang, queryStr); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidQuery, err)
	}
	return nil
}

// QueryWithCache executes a tree-sitter query with cached compilation.
// Text predicates (#eq?, #match? and their negations) are evaluated against
// source; matches failing them are dropped.
func QueryWithCache(root *sitter.Node, source []byte, lang domain.Language, queryStr string) ([]QueryResult, error) {
	query, err := getCachedQuery(lang, queryStr)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidQuery, err)
	}

	cursor := sitter.NewQueryCursor()
	defer cursor.Close()

	cursor.Exec(query, root)

	var results []QueryResult
	for {
		match, ok := cursor.NextMatch()
		if !ok {
			break
		}

		match = cursor.FilterPredicates(match, source)
		if len(match.Captures) == 0 {
			continue
		}

		result := QueryResult{
			Captures: make([]Capture, 0, len(match.Captures)),
		}
		for _, capture := range match.Captures {
			result.Captures = append(result.Captures, Capture{
				Name: query.CaptureNameForId(capture.Index),
				Node: capture.Node,
			})
		}

		results = append(results, result)
	}

	return results, nil
}

// ClearQueryCache removes all cached queries. Only for testing.
func ClearQueryCache() {
	var toClose []*sitter.Query

	queryCache.Range(func(key, value any) bool {
		queryCache.Delete(key)
		if cached, ok := value.(*cachedQuery); ok {
			cached.once.Do(func() {})
			if cached.query != nil && cached.err == nil {
				toClose = append(toClose, cached.query)
			}
		}
		return true
	})

	for _, q := range toClose {
		q.Close()
	}
}
