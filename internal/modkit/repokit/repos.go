// Package repokit holds the seams repositories are written against
package repokit

import "secretsanta/internal/platform/store"

type (
	// Queryer is the read and write surface a bound repo runs on
	Queryer = store.RowQuerier

	// TxRunner runs a function inside a transaction
	TxRunner = store.TxRunner

	// Rows are the result set of a query
	Rows = store.Rows

	// Row is a single row result
	Row = store.Row

	// CommandTag is the result of a statement that changes data
	CommandTag = store.CommandTag
)
