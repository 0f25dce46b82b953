package repository

import "errors"

// ErrNotFound запись для обновления или удаления не найдена
var ErrNotFound = errors.New("record not found")
