package xcontext

import (
	"context"

	"gorm.io/gorm"
)

// transaction is the per-request unit of work. Besides the gorm handle it
// carries after-commit hooks: callbacks that must fire only once the
// transaction has committed, and never when it rolls back.
type transaction struct {
	db       *gorm.DB
	hooks    []func(context.Context)
	finished bool
}

func currentTx(ctx context.Context) *transaction {
	tx, ok := ctx.Value(txKey{}).(*transaction)
	if !ok || tx.finished {
		return nil
	}

	return tx
}

// WithDBTransaction begins a database transaction and stores it in the
// returned context. Until committed or rolled back, DB() resolves to the
// transaction instead of the root connection.
func WithDBTransaction(ctx context.Context) context.Context {
	db, ok := ctx.Value(dbKey{}).(*gorm.DB)
	if !ok {
		panic("no database provided in context")
	}

	return context.WithValue(ctx, txKey{}, &transaction{db: db.Begin()})
}

// WithCommitDBTransaction commits the active transaction, then flushes its
// after-commit hooks. Hooks run outside of the transaction, so they observe
// committed state and their failures cannot roll anything back.
func WithCommitDBTransaction(ctx context.Context) context.Context {
	tx := currentTx(ctx)
	if tx == nil {
		return ctx
	}

	tx.finished = true
	if err := tx.db.Commit().Error; err != nil {
		Logger(ctx).Errorf("Cannot commit transaction: %v", err)
		return ctx
	}

	for _, hook := range tx.hooks {
		hook(ctx)
	}

	return ctx
}

// WithRollbackDBTransaction rolls back the active transaction and discards
// its after-commit hooks. It is a no-op after a commit, so it is safe to
// defer unconditionally.
func WithRollbackDBTransaction(ctx context.Context) context.Context {
	tx := currentTx(ctx)
	if tx == nil {
		return ctx
	}

	tx.finished = true
	tx.hooks = nil
	if err := tx.db.Rollback().Error; err != nil {
		Logger(ctx).Errorf("Cannot rollback transaction: %v", err)
	}

	return ctx
}

// AfterCommit schedules hook to run after the active transaction commits.
// With no active transaction the hook runs immediately.
func AfterCommit(ctx context.Context, hook func(context.Context)) {
	tx := currentTx(ctx)
	if tx == nil {
		hook(ctx)
		return
	}

	tx.hooks = append(tx.hooks, hook)
}
