package loader

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/akozadaev/go_crime_analytical_system/internal/models"
	"github.com/cespare/xxhash/v2"
)

// Snapshot неизменяемое содержимое источника вместе с отпечатком.
type Snapshot struct {
	Name        string
	Fingerprint string
	Data        []byte
}

// Source источник исторических записей.
type Source interface {
	Name() string
	Snapshot(ctx context.Context) (*Snapshot, error)
}

// FileSource читает CSV с локального диска.
type FileSource struct {
	Path    string
	Timeout time.Duration // 0 - без таймаута
}

// NewFileSource создает источник для файла path.
func NewFileSource(path string, timeout time.Duration) *FileSource {
	return &FileSource{Path: path, Timeout: timeout}
}

func (s *FileSource) Name() string {
	return s.Path
}

// Snapshot читает файл целиком. Ошибка чтения или истечение таймаута
// возвращаются как ErrDataUnavailable.
func (s *FileSource) Snapshot(ctx context.Context) (*Snapshot, error) {
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	type result struct {
		data []byte
		err  error
	}
	done := make(chan result, 1)
	go func() {
		data, err := os.ReadFile(s.Path)
		done <- result{data: data, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: reading %s: %v", models.ErrDataUnavailable, s.Path, ctx.Err())
	case res := <-done:
		if res.err != nil {
			return nil, fmt.Errorf("%w: %v", models.ErrDataUnavailable, res.err)
		}
		return NewSnapshot(s.Path, res.data), nil
	}
}

// NewSnapshot оборачивает данные и вычисляет их отпечаток.
func NewSnapshot(name string, data []byte) *Snapshot {
	return &Snapshot{
		Name:        name,
		Fingerprint: Fingerprint(data),
		Data:        data,
	}
}

// Fingerprint xxhash содержимого в hex.
func Fingerprint(data []byte) string {
	digest := xxhash.New()
	_, _ = digest.Write(data)
	return hex.EncodeToString(digest.Sum(nil))
}

// BytesSource источник в памяти, используется для загрузок и тестов.
type BytesSource struct {
	name string
	data []byte
}

// NewBytesSource создает источник из готовых данных.
func NewBytesSource(name string, data []byte) *BytesSource {
	return &BytesSource{name: name, data: data}
}

func (s *BytesSource) Name() string {
	return s.name
}

func (s *BytesSource) Snapshot(ctx context.Context) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrDataUnavailable, err)
	}
	return NewSnapshot(s.name, s.data), nil
}
