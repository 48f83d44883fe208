package sqlite

import (
	"errors"
	"fmt"

	moderncsqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/mesh-intelligence/stockpile/pkg/types"
)

// storeFailure labels err as a storage fault while keeping the cause
// reachable through errors.Is and errors.As.
func storeFailure(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", types.ErrStoreFailure, op, err)
}

// constraintCode returns the extended SQLite result code of err, or 0 when
// err did not come from the driver.
func constraintCode(err error) int {
	var se *moderncsqlite.Error
	if errors.As(err, &se) {
		return se.Code()
	}
	return 0
}

func isUniqueViolation(err error) bool {
	code := constraintCode(err)
	return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
}

func isForeignKeyViolation(err error) bool {
	return constraintCode(err) == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY
}

func isCheckViolation(err error) bool {
	return constraintCode(err) == sqlite3.SQLITE_CONSTRAINT_CHECK
}
