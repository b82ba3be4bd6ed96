package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/fastygo/habits/domain"
)

const uniqueViolation = "23505"

// limitArg turns a non-positive limit into NULL, which Postgres reads as LIMIT ALL.
func limitArg(limit int) interface{} {
	if limit <= 0 {
		return nil
	}
	return limit
}

func dayArg(day *domain.Day) interface{} {
	if day == nil {
		return nil
	}
	return day.Time()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
