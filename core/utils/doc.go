// Package utils converts loosely typed values, such as columns scanned into
// map[string]any by raw SQL queries, into Go types.
package utils
