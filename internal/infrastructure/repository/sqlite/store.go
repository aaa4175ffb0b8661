// Package sqlite implements ports.Store on an embedded SQLite database,
// one table per collection.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"photo-share-api/internal/domain"
	"photo-share-api/internal/ports"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	github_login TEXT PRIMARY KEY,
	name         TEXT NOT NULL DEFAULT '',
	avatar       TEXT NOT NULL DEFAULT '',
	github_token TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_users_token ON users(github_token);

CREATE TABLE IF NOT EXISTS photos (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	name        TEXT NOT NULL,
	description TEXT,
	category    TEXT NOT NULL,
	github_user TEXT NOT NULL,
	created     TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_photos_owner ON photos(github_user);

CREATE TABLE IF NOT EXISTS tags (
	id       INTEGER PRIMARY KEY AUTOINCREMENT,
	photo_id TEXT NOT NULL,
	user_id  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_tags_photo ON tags(photo_id);
CREATE INDEX IF NOT EXISTS idx_tags_user ON tags(user_id);
`

// Store wraps the database connection
type Store struct {
	db *sql.DB
}

var _ ports.Store = (*Store)(nil)

// Open opens (creating if needed) the database at path and applies the schema
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(time.Hour)

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Users() ports.UserRepository   { return userRepository{s.db} }
func (s *Store) Photos() ports.PhotoRepository { return photoRepository{s.db} }
func (s *Store) Tags() ports.TagRepository     { return tagRepository{s.db} }

func storeErr(op string, err error) error {
	return fmt.Errorf("%w: failed to %s: %w", domain.ErrStoreUnavailable, op, err)
}

func count(ctx context.Context, db *sql.DB, table string) (int, error) {
	var n int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		return 0, storeErr("count "+table, err)
	}
	return n, nil
}

type userRepository struct{ db *sql.DB }

const userColumns = "github_login, name, avatar, github_token"

func scanUser(row interface{ Scan(...any) error }) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.GithubLogin, &u.Name, &u.Avatar, &u.GithubToken); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r userRepository) Count(ctx context.Context) (int, error) {
	return count(ctx, r.db, "users")
}

func (r userRepository) FindAll(ctx context.Context) ([]*domain.User, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY rowid")
	if err != nil {
		return nil, storeErr("list users", err)
	}
	defer rows.Close()

	users := make([]*domain.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, storeErr("decode user", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list users", err)
	}
	return users, nil
}

func (r userRepository) findOne(ctx context.Context, where string, arg string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE "+where+" LIMIT 1", arg)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("get user", err)
	}
	return u, nil
}

func (r userRepository) FindByLogin(ctx context.Context, login string) (*domain.User, error) {
	return r.findOne(ctx, "github_login = ?", login)
}

func (r userRepository) FindByToken(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, nil
	}
	return r.findOne(ctx, "github_token = ?", token)
}

func (r userRepository) Upsert(ctx context.Context, user *domain.User) (*domain.User, error) {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?)
		ON CONFLICT(github_login) DO UPDATE SET
			name = excluded.name,
			avatar = excluded.avatar,
			github_token = excluded.github_token`,
		user.GithubLogin, user.Name, user.Avatar, user.GithubToken,
	)
	if err != nil {
		return nil, storeErr("save user", err)
	}

	stored, err := r.FindByLogin(ctx, user.GithubLogin)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, fmt.Errorf("%w: user %q missing after upsert", domain.ErrStoreUnavailable, user.GithubLogin)
	}
	return stored, nil
}

type photoRepository struct{ db *sql.DB }

const photoColumns = "id, name, description, category, github_user, created"

func scanPhoto(row interface{ Scan(...any) error }) (*domain.Photo, error) {
	var (
		p           domain.Photo
		id          int64
		description sql.NullString
		category    string
		created     string
	)
	if err := row.Scan(&id, &p.Name, &description, &category, &p.GithubUser, &created); err != nil {
		return nil, err
	}
	if description.Valid {
		p.Description = &description.String
	}
	ts, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return nil, fmt.Errorf("invalid created timestamp %q: %w", created, err)
	}
	p.ID = strconv.FormatInt(id, 10)
	p.Category = domain.PhotoCategory(category)
	p.Created = ts.UTC()
	return &p, nil
}

func (r photoRepository) Count(ctx context.Context) (int, error) {
	return count(ctx, r.db, "photos")
}

func (r photoRepository) list(ctx context.Context, where string, args ...any) ([]*domain.Photo, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+photoColumns+" FROM photos "+where+" ORDER BY id", args...)
	if err != nil {
		return nil, storeErr("list photos", err)
	}
	defer rows.Close()

	photos := make([]*domain.Photo, 0)
	for rows.Next() {
		p, err := scanPhoto(rows)
		if err != nil {
			return nil, storeErr("decode photo", err)
		}
		photos = append(photos, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list photos", err)
	}
	return photos, nil
}

func (r photoRepository) FindAll(ctx context.Context) ([]*domain.Photo, error) {
	return r.list(ctx, "")
}

func (r photoRepository) FindByOwner(ctx context.Context, login string) ([]*domain.Photo, error) {
	return r.list(ctx, "WHERE github_user = ?", login)
}

func (r photoRepository) FindByID(ctx context.Context, id string) (*domain.Photo, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return nil, nil
	}

	row := r.db.QueryRowContext(ctx, "SELECT "+photoColumns+" FROM photos WHERE id = ?", n)
	p, err := scanPhoto(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("get photo", err)
	}
	return p, nil
}

func (r photoRepository) Insert(ctx context.Context, photo *domain.Photo) (string, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO photos (name, description, category, github_user, created) VALUES (?, ?, ?, ?, ?)",
		photo.Name, photo.Description, string(photo.Category), photo.GithubUser,
		photo.Created.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", storeErr("insert photo", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return "", storeErr("read photo id", err)
	}
	return strconv.FormatInt(id, 10), nil
}

type tagRepository struct{ db *sql.DB }

func (r tagRepository) list(ctx context.Context, column, value string) ([]*domain.Tag, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT photo_id, user_id FROM tags WHERE "+column+" = ? ORDER BY id", value)
	if err != nil {
		return nil, storeErr("list tags", err)
	}
	defer rows.Close()

	tags := make([]*domain.Tag, 0)
	for rows.Next() {
		var t domain.Tag
		if err := rows.Scan(&t.PhotoID, &t.UserID); err != nil {
			return nil, storeErr("decode tag", err)
		}
		tags = append(tags, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list tags", err)
	}
	return tags, nil
}

func (r tagRepository) FindByPhoto(ctx context.Context, photoID string) ([]*domain.Tag, error) {
	return r.list(ctx, "photo_id", photoID)
}

func (r tagRepository) FindByUser(ctx context.Context, login string) ([]*domain.Tag, error) {
	return r.list(ctx, "user_id", login)
}

func (r tagRepository) Insert(ctx context.Context, tag *domain.Tag) error {
	if _, err := r.db.ExecContext(ctx, "INSERT INTO tags (photo_id, user_id) VALUES (?, ?)", tag.PhotoID, tag.UserID); err != nil {
		return storeErr("insert tag", err)
	}
	return nil
}
