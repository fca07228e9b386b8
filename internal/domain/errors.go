package domain

import "errors"

var (
	// ErrNotFound is returned when a record does not exist or belongs to another user
	ErrNotFound = errors.New("not found")
	// ErrReadOnly is returned when a demo user tries to change data
	ErrReadOnly = errors.New("demo account is read-only")
	// ErrNoActiveMemoFile is returned when an operation needs an active memo file
	ErrNoActiveMemoFile = errors.New("no active memo file")
	// ErrEmptyInput is returned for blank names, words or translations
	ErrEmptyInput = errors.New("empty input")
	// ErrRowOutOfRange is returned when a row number falls outside the selected pages
	ErrRowOutOfRange = errors.New("row number out of range")
)
