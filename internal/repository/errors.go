// Package repository implements the MySQL persistence layer.  Lookups
// return (nil, nil) when no row matches so callers decide what a missing
// row means.  Driver errors that higher layers need to tell apart are
// translated into the sentinel values below.
package repository

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
)

// ErrDuplicate is returned when an insert violates a unique key, for
// example a second booking for the same user.
var ErrDuplicate = errors.New("duplicate")

// ErrConflict is returned when MySQL gives up on a statement or commit
// because of lock contention (deadlock or lock wait timeout).  The
// transaction has been rolled back and nothing was written.
var ErrConflict = errors.New("conflict")

const (
	mysqlDupEntry        = 1062
	mysqlLockWaitTimeout = 1205
	mysqlDeadlock        = 1213
)

// classify maps MySQL error numbers onto the sentinels above and leaves
// every other error untouched.
func classify(err error) error {
	var me *mysql.MySQLError
	if !errors.As(err, &me) {
		return err
	}
	switch me.Number {
	case mysqlDupEntry:
		return fmt.Errorf("%w: %s", ErrDuplicate, me.Message)
	case mysqlDeadlock, mysqlLockWaitTimeout:
		return fmt.Errorf("%w: %s", ErrConflict, me.Message)
	}
	return err
}
