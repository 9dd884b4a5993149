package repository

import (
	"context"

	"gorm.io/gorm"
)

type txContextKey struct{}

func withTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txContextKey{}, tx)
}

// dbFor resolves the handle a repository call should use: the transaction
// bound to ctx when one is in flight, otherwise the base connection. Every
// repository method goes through this, so any method joins an ambient
// transaction transparently.
func dbFor(ctx context.Context, base *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txContextKey{}).(*gorm.DB); ok {
		return tx
	}
	return base.WithContext(ctx)
}

type TxManager struct {
	db *gorm.DB
}

func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

// Atomic runs fn inside one database transaction. The transaction commits
// when fn returns nil and rolls back in full on error or context
// cancellation; a partially applied edge/counter pair is never visible
// outside the transaction.
func (m *TxManager) Atomic(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(withTx(ctx, tx))
	})
}
