package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// DBTX is the subset of sqlx shared by *sqlx.DB and *sqlx.Tx. Writes
// go through it so a repository call transparently joins a transaction
// carried in the context.
type DBTX interface {
	sqlx.ExtContext
}

type contextKey string

// TransactionContextKey is where WithTransaction stores the active
// *sqlx.Tx.
const TransactionContextKey contextKey = "tx"

// GetExecutor returns the transaction from the context if one is
// active, otherwise the plain DB handle.
func GetExecutor(ctx context.Context, db DBTX) DBTX {
	if tx := ctx.Value(TransactionContextKey); tx != nil {
		if sqlxTx, ok := tx.(*sqlx.Tx); ok {
			return sqlxTx
		}
	}
	return db
}
