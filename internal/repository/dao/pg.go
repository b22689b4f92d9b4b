package dao

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniquePriceIndex    = "idx_unique_price"
	creditNonNegativeCk = "chk_users_credit"
)

var (
	ErrConflict       = errors.New("concurrent update conflict, try again")
	ErrAmountTooLarge = errors.New("amount exceeds the storable range")
)

// translatePgError turns the postgres failures the ledger cares about into
// package sentinels and leaves everything else untouched.
func translatePgError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		if pgErr.ConstraintName == uniquePriceIndex {
			return ErrDuplicatePrice
		}
	case pgerrcode.CheckViolation:
		if pgErr.ConstraintName == creditNonNegativeCk {
			return ErrInsufficientCredit
		}
	case pgerrcode.NumericValueOutOfRange:
		return ErrAmountTooLarge
	case pgerrcode.SerializationFailure, pgerrcode.DeadlockDetected, pgerrcode.LockNotAvailable:
		return ErrConflict
	}

	return err
}
