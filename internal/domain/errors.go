package domain

import "errors"

// Store-level outcomes shared by the repositories and the services above them.
var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("already exists")
	ErrDuplicate  = errors.New("duplicate key")
	ErrForeignKey = errors.New("referenced row does not exist")
)
