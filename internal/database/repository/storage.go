package repository

import (
	"errors"
	"fmt"
)

// ErrStorage marks a failure of the underlying database. The driver error is wrapped inside.
var ErrStorage = errors.New("storage error")

// ErrDuplicate is returned when a unique constraint rejects an insert.
var ErrDuplicate = errors.New("record already exists")

func storageErr(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrStorage, err)
}
