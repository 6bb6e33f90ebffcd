package employee

import "errors"

var (
	ErrInvalidID        = errors.New("employee: invalid id")
	ErrInvalidName      = errors.New("employee: invalid name")
	ErrInvalidSkill     = errors.New("employee: invalid skill")
	ErrEmployeeNotFound = errors.New("employee: not found")
)
