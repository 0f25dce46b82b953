package service

import (
	"errors"
	"fmt"

	"github.com/Freeeeeet/study_planner_bot/internal/repository"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrAccessDenied     = errors.New("access denied")
	ErrAlreadyExists    = errors.New("already exists")
	ErrAlreadyCompleted = errors.New("session already completed")
	ErrExpired          = errors.New("session expired")
	ErrInvalidArgument  = errors.New("invalid argument")
	// ErrInfrastructure сбой хранилища, исходная ошибка тоже доступна через errors.Is/As
	ErrInfrastructure = errors.New("infrastructure failure")
)

func infra(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrInfrastructure, err)
}

// storeErr как infra, но пропавшая запись остаётся ErrNotFound
func storeErr(op string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return infra(op, err)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
