package service

import "errors"

// Ошибки валидации и поиска. Отказы хранилища не оборачиваются в них и
// распознаются по остаточному принципу.
var (
	ErrInvalidAmount   = errors.New("amount must be positive")
	ErrUnknownCategory = errors.New("unknown category")
	ErrInvalidTimezone = errors.New("invalid timezone")
	ErrNotFound        = errors.New("record not found")
)
