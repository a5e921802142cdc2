package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDataUnavailable источник данных отсутствует или не читается
	ErrDataUnavailable = errors.New("data unavailable")
	// ErrSchemaMismatch в загруженном файле нет обязательных колонок
	ErrSchemaMismatch = errors.New("schema mismatch")
	// ErrImportFailed загруженный файл поврежден или не является таблицей
	ErrImportFailed = errors.New("import failed")
	// ErrNotFound запрошенный объект не найден
	ErrNotFound = errors.New("not found")
)

// MissingColumnsError перечисляет отсутствующие колонки исходного набора.
type MissingColumnsError struct {
	Missing []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Missing, ", "))
}

func (e *MissingColumnsError) Is(target error) bool {
	return target == ErrDataUnavailable
}

// SchemaMismatchError перечисляет колонки, которых нет в файле прогноза.
type SchemaMismatchError struct {
	Missing []string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("schema mismatch: missing columns %s", strings.Join(e.Missing, ", "))
}

func (e *SchemaMismatchError) Is(target error) bool {
	return target == ErrSchemaMismatch
}

// ImportError сохраняет исходную причину неудачного импорта.
type ImportError struct {
	Cause error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("import failed: %v", e.Cause)
}

func (e *ImportError) Unwrap() error {
	return e.Cause
}

func (e *ImportError) Is(target error) bool {
	return target == ErrImportFailed
}
