package db

import (
	"errors"

	"gorm.io/gorm"
)

// IsNotFound reports whether a lookup matched no rows.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
