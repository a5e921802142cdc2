package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/akozadaev/go_crime_analytical_system/internal/models"
	"github.com/lib/pq"
)

// PostgresStorage предоставляет методы для работы со справочниками в PostgreSQL.
type PostgresStorage struct {
	db *sql.DB // Подключение к базе данных PostgreSQL
}

// NewPostgresStorage создает новый экземпляр PostgresStorage и устанавливает подключение к БД.
// DSN должен быть в формате: "host=... port=... user=... password=... dbname=... sslmode=..."
func NewPostgresStorage(ctx context.Context, dsn string) (*PostgresStorage, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresStorage{db: db}, nil
}

// Close закрывает подключение к базе данных PostgreSQL.
func (ps *PostgresStorage) Close() error {
	return ps.db.Close()
}

// GetCategories возвращает справочник категорий происшествий, отсортированный по имени.
func (ps *PostgresStorage) GetCategories(ctx context.Context) ([]*models.Category, error) {
	query := `SELECT id, code, name, description, created_at, updated_at FROM incident_categories ORDER BY name`

	rows, err := ps.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		var c models.Category
		var description sql.NullString
		if err := rows.Scan(
			&c.ID,
			&c.Code,
			&c.Name,
			&description,
			&c.CreatedAt,
			&c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		c.Description = description.String
		categories = append(categories, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return categories, nil
}

// GetDistricts возвращает справочник районов.
// Поддерживает иерархическую структуру через ParentDistrictID.
func (ps *PostgresStorage) GetDistricts(ctx context.Context) ([]*models.District, error) {
	query := `SELECT id, name, parent_district_id, created_at, updated_at FROM districts ORDER BY name`

	rows, err := ps.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query districts: %w", err)
	}
	defer rows.Close()

	var districts []*models.District
	for rows.Next() {
		var d models.District
		var parentID sql.NullInt64
		if err := rows.Scan(
			&d.ID,
			&d.Name,
			&parentID,
			&d.CreatedAt,
			&d.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan district: %w", err)
		}
		if parentID.Valid {
			parentIDInt := int(parentID.Int64)
			d.ParentDistrictID = &parentIDInt
		}
		districts = append(districts, &d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return districts, nil
}

// GetForecastEntries возвращает каталог предрасчитанных прогнозов из БД.
// Используется вместо YAML каталога, когда включен PostgreSQL.
func (ps *PostgresStorage) GetForecastEntries(ctx context.Context) ([]models.ForecastEntry, error) {
	query := `SELECT key, name, category, period, forecast_file, zone_column, predicted_columns,
		COALESCE(metrics_file, ''), COALESCE(metrics_key, '')
		FROM forecast_catalog ORDER BY key`

	rows, err := ps.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query forecast catalog: %w", err)
	}
	defer rows.Close()

	var entries []models.ForecastEntry
	for rows.Next() {
		var e models.ForecastEntry
		var columns []string
		if err := rows.Scan(
			&e.Key,
			&e.Name,
			&e.Category,
			&e.Period,
			&e.ForecastFile,
			&e.ZoneColumn,
			pq.Array(&columns),
			&e.MetricsFile,
			&e.MetricsKey,
		); err != nil {
			return nil, fmt.Errorf("failed to scan forecast entry: %w", err)
		}
		e.PredictedColumns = columns
		e.ApplyDefaults()
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return entries, nil
}
