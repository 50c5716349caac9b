package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"

	apperrors "github.com/nomadicTree/frayerstore/internal/pkg/errors"
	"github.com/nomadicTree/frayerstore/internal/platform/ctxutil"
	"github.com/nomadicTree/frayerstore/internal/platform/dbctx"
	"github.com/nomadicTree/frayerstore/internal/platform/logger"
)

// Transactor runs fn inside one atomic unit of work. fn receives a Context
// whose Tx every repository call must use; returning an error rolls back.
type Transactor interface {
	InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error
}

type gormTransactor struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTransactor(db *gorm.DB, baseLog *logger.Logger) Transactor {
	return &gormTransactor{db: db, log: baseLog.With("component", "Transactor")}
}

func (t *gormTransactor) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	ctx = ctxutil.Default(ctx)
	err := t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(dbctx.Context{Ctx: ctx, Tx: tx})
	})
	if err != nil {
		t.log.Debug("Transaction rolled back", "error", err)
	}
	return err
}

// conn picks the transaction from dbc when present and binds the context.
func conn(dbc dbctx.Context, db *gorm.DB) *gorm.DB {
	t := dbc.Tx
	if t == nil {
		t = db
	}
	return t.WithContext(ctxutil.Default(dbc.Ctx))
}

// takeOne runs a single-row lookup; a missing row is reported as found=false.
func takeOne(q *gorm.DB, dest interface{}) (bool, error) {
	err := q.Take(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// translateWriteErr maps uniqueness violations from either driver to
// ErrConflict so callers need not know which store they are talking to.
func translateWriteErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if isUniqueViolation(err) {
		return fmt.Errorf("%s: %w: %v", op, apperrors.ErrConflict, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.UniqueViolation
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
