package repositories

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a write would break a uniqueness rule or
	// lost a race against a concurrent write.
	ErrConflict = errors.New("record conflict")
)

func notFound(entity string, id any) error {
	return fmt.Errorf("%s %v: %w", entity, id, ErrNotFound)
}

// lookupError names the missing entity on ErrNotFound and passes storage
// failures through unchanged.
func lookupError(entity string, id any, err error) error {
	if errors.Is(err, ErrNotFound) {
		return notFound(entity, id)
	}
	return fmt.Errorf("failed to load %s %v: %w", entity, id, err)
}

// translateError maps driver and GORM errors onto the package sentinels.
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrConflict
	}
	// Drivers that do not implement gorm's error translator.
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate") {
		return fmt.Errorf("%w: %v", ErrConflict, err)
	}
	return err
}

func likePattern(s string) string {
	return "%" + strings.ToLower(s) + "%"
}
