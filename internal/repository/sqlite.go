package repository

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/NickGV/serujier/internal/models"
)

// Repository provides data access methods backed by SQLite.
type Repository struct {
	db *sql.DB
}

// New creates a new Repository
func New(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, err
	}

	// SQLite works best with a single connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	repo := &Repository{db: db}

	if err := repo.migrate(); err != nil {
		return nil, err
	}

	return repo, nil
}

// Close closes the database connection
func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks if the database connection is alive
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// migrate runs database migrations
func (r *Repository) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS members (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			category TEXT NOT NULL,
			activo BOOLEAN DEFAULT 1,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS sympathizers (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			phone TEXT,
			activo BOOLEAN DEFAULT 1,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS ushers (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			activo BOOLEAN DEFAULT 1,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS tally_state (
			key TEXT PRIMARY KEY,
			data TEXT NOT NULL,
			updated_at DATETIME
		)`,
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT
		)`,
	}

	for _, migration := range migrations {
		if _, err := r.db.Exec(migration); err != nil {
			return err
		}
	}
	return nil
}

// --- Members ---

// ListMembers returns members sorted by name. An empty category lists all
// member sub-categories.
func (r *Repository) ListMembers(ctx context.Context, category models.Category) ([]models.Member, error) {
	query := `SELECT id, name, category, activo FROM members`
	args := []interface{}{}
	if category != "" {
		query += ` WHERE category = ?`
		args = append(args, string(category))
	}
	query += ` ORDER BY name COLLATE NOCASE`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []models.Member
	for rows.Next() {
		var m models.Member
		var cat string
		if err := rows.Scan(&m.ID, &m.Name, &cat, &m.Active); err != nil {
			return nil, err
		}
		m.Category = models.Category(cat)
		members = append(members, m)
	}
	return members, rows.Err()
}

// CreateMember inserts a member and returns its id
func (r *Repository) CreateMember(ctx context.Context, name string, category models.Category) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO members (name, category) VALUES (?, ?)`, name, string(category))
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// UpdateMember updates a member row
func (r *Repository) UpdateMember(ctx context.Context, id int64, name string, category models.Category, active bool) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE members SET name = ?, category = ?, activo = ? WHERE id = ?`,
		name, string(category), active, id)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// DeleteMember removes a member row
func (r *Repository) DeleteMember(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM members WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// --- Sympathizers ---

// ListSympathizers returns all sympathizers sorted by name
func (r *Repository) ListSympathizers(ctx context.Context) ([]models.Sympathizer, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, COALESCE(phone, ''), activo FROM sympathizers ORDER BY name COLLATE NOCASE`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sympathizers []models.Sympathizer
	for rows.Next() {
		var s models.Sympathizer
		if err := rows.Scan(&s.ID, &s.Name, &s.Phone, &s.Active); err != nil {
			return nil, err
		}
		sympathizers = append(sympathizers, s)
	}
	return sympathizers, rows.Err()
}

// CreateSympathizer inserts a sympathizer and returns its id, used by the
// add-on-the-fly flow on the counter page
func (r *Repository) CreateSympathizer(ctx context.Context, name, phone string) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO sympathizers (name, phone) VALUES (?, ?)`, name, phone)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// UpdateSympathizer updates a sympathizer row
func (r *Repository) UpdateSympathizer(ctx context.Context, id int64, name, phone string, active bool) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE sympathizers SET name = ?, phone = ?, activo = ? WHERE id = ?`,
		name, phone, active, id)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// DeleteSympathizer removes a sympathizer row
func (r *Repository) DeleteSympathizer(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM sympathizers WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// --- Ushers ---

// ListUshers returns all ushers sorted by name; callers filter on Active.
func (r *Repository) ListUshers(ctx context.Context) ([]models.Usher, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, activo FROM ushers ORDER BY name COLLATE NOCASE`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ushers []models.Usher
	for rows.Next() {
		var u models.Usher
		if err := rows.Scan(&u.ID, &u.Name, &u.Active); err != nil {
			return nil, err
		}
		ushers = append(ushers, u)
	}
	return ushers, rows.Err()
}

// CreateUsher inserts an usher and returns its id
func (r *Repository) CreateUsher(ctx context.Context, name string) (int64, error) {
	result, err := r.db.ExecContext(ctx, `INSERT INTO ushers (name) VALUES (?)`, name)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// SetUsherActive toggles an usher's active flag
func (r *Repository) SetUsherActive(ctx context.Context, id int64, active bool) error {
	result, err := r.db.ExecContext(ctx, `UPDATE ushers SET activo = ? WHERE id = ?`, active, id)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// DeleteUsher removes an usher row
func (r *Repository) DeleteUsher(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM ushers WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// --- Tally state ---

// SaveTallyState upserts the serialized tally state for a key
func (r *Repository) SaveTallyState(ctx context.Context, key, data string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tally_state (key, data, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			data = excluded.data,
			updated_at = excluded.updated_at
	`, key, data, time.Now())
	return err
}

// LoadTallyState returns the serialized tally state for a key
func (r *Repository) LoadTallyState(ctx context.Context, key string) (string, error) {
	var data string
	err := r.db.QueryRowContext(ctx,
		`SELECT data FROM tally_state WHERE key = ?`, key).Scan(&data)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	return data, err
}

// DeleteTallyState removes the serialized tally state for a key
func (r *Repository) DeleteTallyState(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM tally_state WHERE key = ?`, key)
	return err
}

// --- Settings ---

// GetSetting retrieves a setting value
func (r *Repository) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	return value, err
}

// SetSetting upserts a setting value
func (r *Repository) SetSetting(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

// requireRow converts a zero-rows-affected result into ErrNotFound
func requireRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
