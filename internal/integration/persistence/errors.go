package persistence

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// isUniqueViolation reports whether err is a unique index violation. Dialects with
// TranslateError enabled return gorm.ErrDuplicatedKey; the message check covers
// drivers that do not translate.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}
