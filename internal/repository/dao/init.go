package dao

import (
	"errors"

	"gorm.io/gorm"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(
		&Participant{},
		&CreditType{},
		&Code{},
		&CheckinType{},
		&CheckinRecord{},
	)
}

// isUniqueViolation recognizes unique-constraint violations from the
// Postgres driver directly and from GORM's translated error, which the
// sqlite driver used in tests produces.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return true
	}

	return errors.Is(err, gorm.ErrDuplicatedKey)
}
