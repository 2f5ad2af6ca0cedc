package repository

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"planner3d/internal/converter/models"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

// ============================================================
// SQLite Repository
// ============================================================

//go:embed migrations/*.sql
var migrations embed.FS

var ErrNotFound = errors.New("layout not found")

type Repository struct {
	db *sql.DB
}

func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Init применяет миграции по порядку имён файлов.
func (r *Repository) Init(ctx context.Context) error {
	entries, err := migrations.ReadDir("migrations")
	if err != nil {
		return errors.Wrap(err, "list migrations")
	}
	for _, entry := range entries {
		data, err := migrations.ReadFile("migrations/" + entry.Name())
		if err != nil {
			return errors.Wrapf(err, "read migration %s", entry.Name())
		}
		if _, err := r.db.ExecContext(ctx, string(data)); err != nil {
			return errors.Wrapf(err, "apply migration %s", entry.Name())
		}
	}
	return nil
}

// Create сохраняет JSON плана под новым id. Имя и число комнат берутся из самого JSON.
func (r *Repository) Create(ctx context.Context, data []byte) (*models.StoredLayout, error) {
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO layouts (id, name, data, rooms)
        VALUES (?, ?, ?, ?)
    `, id, layoutName(data), string(data), roomCount(data))
	if err != nil {
		return nil, errors.Wrap(err, "insert layout")
	}
	return r.Get(ctx, id)
}

// Update заменяет JSON существующего плана.
func (r *Repository) Update(ctx context.Context, id string, data []byte) (*models.StoredLayout, error) {
	res, err := r.db.ExecContext(ctx, `
        UPDATE layouts
        SET name = ?, data = ?, rooms = ?, updated_at = strftime('%Y-%m-%dT%H:%M:%SZ', 'now')
        WHERE id = ?
    `, layoutName(data), string(data), roomCount(data), id)
	if err != nil {
		return nil, errors.Wrap(err, "update layout")
	}
	if err := expectRow(res); err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

func (r *Repository) Get(ctx context.Context, id string) (*models.StoredLayout, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT id, name, rooms, data, created_at, updated_at
        FROM layouts
        WHERE id = ?
    `, id)

	var l models.StoredLayout
	var data string
	if err := row.Scan(&l.ID, &l.Name, &l.Rooms, &data, &l.CreatedAt, &l.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "select layout")
	}
	l.Data = json.RawMessage(data)
	return &l, nil
}

// List возвращает планы без тела, новые первыми.
func (r *Repository) List(ctx context.Context) ([]models.StoredLayout, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, name, rooms, created_at, updated_at
        FROM layouts
        ORDER BY created_at DESC, id
    `)
	if err != nil {
		return nil, errors.Wrap(err, "select layouts")
	}
	defer rows.Close()

	out := []models.StoredLayout{}
	for rows.Next() {
		var l models.StoredLayout
		if err := rows.Scan(&l.ID, &l.Name, &l.Rooms, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, errors.Wrap(err, "scan layout")
		}
		out = append(out, l)
	}
	return out, errors.Wrap(rows.Err(), "iterate layouts")
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM layouts WHERE id = ?`, id)
	if err != nil {
		return errors.Wrap(err, "delete layout")
	}
	return expectRow(res)
}

// Ping проверяет соединение для readiness-пробы.
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// ============================================================
// Helpers
// ============================================================

func expectRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "rows affected")
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func layoutName(data []byte) string {
	return gjson.GetBytes(data, "name").String()
}

func roomCount(data []byte) int64 {
	return gjson.GetBytes(data, "rooms.#").Int()
}

// OpenSQLite открывает sqlite по указанному пути.
func OpenSQLite(dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, errors.Wrap(err, "mkdir db dir")
	}

	dsn := fmt.Sprintf("file:%s?cache=shared&mode=rwc&_pragma=busy_timeout(5000)", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}
	db.SetMaxOpenConns(1)
	return db, nil
}
