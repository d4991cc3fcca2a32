package sqlstore

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"libranexus/internal/library"
)

// classify maps driver failures onto the error taxonomy. Connection loss,
// serialization failures and lock timeouts are retryable.
func classify(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	if code, ok := sqlState(err); ok {
		switch {
		case code == "23505":
			return &library.Error{Kind: library.KindDuplicateKey, Message: fmt.Sprintf(format, args...), ReasonCode: code, Err: err}
		case code[:2] == "08", code[:2] == "40", code[:2] == "53", code == "55P03", code == "57P01":
			return library.Database(err, true, format, args...)
		}
		return library.Database(err, false, format, args...)
	}

	var netErr net.Error
	switch {
	case errors.Is(err, driver.ErrBadConn),
		errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &netErr):
		return library.Database(err, true, format, args...)
	}
	return library.Database(err, false, format, args...)
}

func sqlState(err error) (string, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && len(pqErr.Code) == 5 {
		return string(pqErr.Code), true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && len(pgErr.Code) == 5 {
		return pgErr.Code, true
	}
	return "", false
}
