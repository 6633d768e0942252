// Package parser locates test declarations in source files using
// tree-sitter queries.
//
// A locator query names four captures:
//
//	namespace.definition  node spanning a grouping scope (module, describe, class)
//	namespace.name        the scope's name
//	test.definition       node spanning a single test
//	test.name             the test's name
//
// Any other capture (for example a marker used by a #match? predicate) is
// ignored.
package parser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/specvital/assert-lsp/pkg/domain"
	"github.com/specvital/assert-lsp/pkg/parser/tspool"
)

// Capture names understood by the locator.
const (
	CaptureNamespaceDefinition = "namespace.definition"
	CaptureNamespaceName       = "namespace.name"
	CaptureTestDefinition      = "test.definition"
	CaptureTestName            = "test.name"
)

// IDSeparator joins namespace and test names into an id.
const IDSeparator = "::"

// DefaultMaxFileSize bounds the size of a source file read for discovery (10MB).
const DefaultMaxFileSize = 10 * 1024 * 1024

// ErrUnreadableFile is returned when a source file cannot be read.
var ErrUnreadableFile = errors.New("parser: unreadable file")

// LocateOptions configures a single discovery call.
type LocateOptions struct {
	// ModulePath prefixes every id (see [ModulePath]).
	ModulePath string

	// MaxFileSize is the largest file accepted, in bytes.
	// Zero or negative values use DefaultMaxFileSize.
	MaxFileSize int64

	// NameTrimmer normalises captured names. Nil strips surrounding
	// whitespace and quotes.
	NameTrimmer func(string) string

	// Logger receives debug output. Nil uses slog.Default().
	Logger *slog.Logger
}

// LocateOption is a functional option for configuring discovery.
type LocateOption func(*LocateOptions)

// WithModulePath prefixes every id with the given module path.
func WithModulePath(modulePath string) LocateOption {
	return func(o *LocateOptions) {
		o.ModulePath = modulePath
	}
}

// WithMaxFileSize sets the largest file accepted for discovery.
// Negative values are ignored.
func WithMaxFileSize(size int64) LocateOption {
	return func(o *LocateOptions) {
		if size >= 0 {
			o.MaxFileSize = size
		}
	}
}

// WithNameTrimmer replaces the function that normalises captured names.
func WithNameTrimmer(trim func(string) string) LocateOption {
	return func(o *LocateOptions) {
		o.NameTrimmer = trim
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) LocateOption {
	return func(o *LocateOptions) {
		o.Logger = logger
	}
}

func applyLocateDefaults(opts []LocateOption) *LocateOptions {
	o := &LocateOptions{}
	for _, opt := range opts {
		opt(o)
	}
	if o.MaxFileSize <= 0 {
		o.MaxFileSize = DefaultMaxFileSize
	}
	if o.NameTrimmer == nil {
		o.NameTrimmer = trimName
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// Locate reads path and returns the tests the query finds in it.
func Locate(ctx context.Context, path string, lang domain.Language, query string, opts ...LocateOption) ([]domain.TestItem, error) {
	o := applyLocateDefaults(opts)

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUnreadableFile, path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s: is a directory", ErrUnreadableFile, path)
	}
	if info.Size() > o.MaxFileSize {
		return nil, fmt.Errorf("%w: %s: %d bytes exceeds limit of %d", ErrUnreadableFile, path, info.Size(), o.MaxFileSize)
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUnreadableFile, path, err)
	}

	return LocateSource(ctx, path, source, lang, query, opts...)
}

// LocateSource is Locate over in-memory source. path is only recorded on
// the returned items.
func LocateSource(ctx context.Context, path string, source []byte, lang domain.Language, query string, opts ...LocateOption) ([]domain.TestItem, error) {
	o := applyLocateDefaults(opts)

	tree, err := tspool.Parse(ctx, lang, source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		o.Logger.Debug("partial parse tree, continuing", "path", path, "language", lang)
	}

	results, err := tspool.QueryWithCache(root, source, lang, query)
	if err != nil {
		return nil, err
	}

	sortMatches(results)

	l := &locator{
		path:       path,
		source:     source,
		modulePath: o.ModulePath,
		trim:       o.NameTrimmer,
		seen:       make(map[string]struct{}),
	}
	for _, r := range results {
		l.process(r)
	}

	return l.items, nil
}

type namespaceScope struct {
	startRow uint32
	endRow   uint32
	name     string
}

func (s namespaceScope) contains(startRow, endRow uint32) bool {
	return s.startRow <= startRow && endRow <= s.endRow
}

type locator struct {
	path       string
	source     []byte
	modulePath string
	trim       func(string) string

	stack []namespaceScope
	items []domain.TestItem
	seen  map[string]struct{}
}

func (l *locator) process(r tspool.QueryResult) {
	if def := r.Find(CaptureNamespaceDefinition); def != nil {
		l.enterNamespace(def)
	}
	if name := r.Find(CaptureNamespaceName); name != nil {
		l.nameNamespace(name)
	}

	def := r.Find(CaptureTestDefinition)
	name := r.Find(CaptureTestName)
	if def == nil || name == nil {
		return
	}
	l.popEscaped(def.StartPoint().Row, def.EndPoint().Row)
	l.addTest(def, name)
}

// popEscaped retires namespaces that do not enclose the given row span.
func (l *locator) popEscaped(startRow, endRow uint32) {
	for len(l.stack) > 0 && !l.stack[len(l.stack)-1].contains(startRow, endRow) {
		l.stack = l.stack[:len(l.stack)-1]
	}
}

func (l *locator) enterNamespace(def *sitter.Node) {
	startRow, endRow := def.StartPoint().Row, def.EndPoint().Row
	l.popEscaped(startRow, endRow)
	l.stack = append(l.stack, namespaceScope{startRow: startRow, endRow: endRow})
}

func (l *locator) nameNamespace(node *sitter.Node) {
	name := l.trim(GetNodeText(node, l.source))
	startRow, endRow := node.StartPoint().Row, node.EndPoint().Row

	if n := len(l.stack); n > 0 && l.stack[n-1].contains(startRow, endRow) {
		l.stack[n-1].name = name
		return
	}
	// A name outside the current scope starts a fresh qualification.
	l.stack = []namespaceScope{{startRow: startRow, endRow: endRow, name: name}}
}

func (l *locator) prefix() string {
	parts := make([]string, 0, len(l.stack))
	for _, s := range l.stack {
		if s.name != "" {
			parts = append(parts, s.name)
		}
	}
	return strings.Join(parts, IDSeparator)
}

func (l *locator) addTest(def, nameNode *sitter.Node) {
	name := l.trim(GetNodeText(nameNode, l.source))
	if name == "" {
		return
	}

	id := name
	if prefix := l.prefix(); prefix != "" {
		id = prefix + IDSeparator + name
	}
	id = QualifyID(l.modulePath, id)

	if _, dup := l.seen[id]; dup {
		return
	}
	l.seen[id] = struct{}{}

	start, end := definitionRanges(def)
	l.items = append(l.items, domain.TestItem{
		ID:            id,
		Name:          name,
		Path:          l.path,
		StartPosition: start,
		EndPosition:   end,
	})
}

// sortMatches orders matches by their definition node so enclosing scopes are
// seen before the declarations inside them.
func sortMatches(results []tspool.QueryResult) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := anchorNode(results[i]), anchorNode(results[j])
		if a == nil || b == nil {
			return b == nil && a != nil
		}
		if a.StartByte() != b.StartByte() {
			return a.StartByte() < b.StartByte()
		}
		return a.EndByte() > b.EndByte()
	})
}

func anchorNode(r tspool.QueryResult) *sitter.Node {
	if n := r.Find(CaptureNamespaceDefinition); n != nil {
		return n
	}
	if n := r.Find(CaptureTestDefinition); n != nil {
		return n
	}
	if len(r.Captures) > 0 {
		return r.Captures[0].Node
	}
	return nil
}

func trimName(s string) string {
	return strings.Trim(strings.TrimSpace(s), "\"'`")
}
