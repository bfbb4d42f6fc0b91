package service

import (
	"errors"

	"gorm.io/gorm"

	apperrors "recipebox/internal/errors"
)

// translate maps storage errors to domain errors.
func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrNotFound
	}
	return err
}
