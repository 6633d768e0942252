// Package queries holds the tree-sitter queries that locate tests for each
// supported framework. Every query uses the capture names understood by
// the parser package.
package queries
