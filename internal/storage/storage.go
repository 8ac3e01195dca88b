// Package storage persists the client's local state in sqlite: sealed key
// material keyed by identity, settings (theme color), and a cache of peer
// profiles. Nothing here survives a session conceptually except keys and
// settings; the profile cache is best-effort.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

type Store struct {
	db *sql.DB
}

// Open opens (or creates) the sqlite DB under dataDir and migrates it.
func Open(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	s, err := NewSQLiteStore(filepath.Join(dataDir, "cloudchat.db"))
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// NewSQLiteStore opens a sqlite DB file with the usual pragmas.
func NewSQLiteStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	for _, pragma := range []string{
		`PRAGMA journal_mode = WAL;`,
		`PRAGMA synchronous = NORMAL;`,
		`PRAGMA foreign_keys = ON;`,
		`PRAGMA busy_timeout = 5000;`,
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set pragma: %w", err)
		}
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() {
	if s != nil && s.db != nil {
		_ = s.db.Close()
	}
}

// Migrate creates the tables. Idempotent.
func (s *Store) Migrate() error {
	const sqlStmt = `
CREATE TABLE IF NOT EXISTS key_material (
  identity TEXT PRIMARY KEY,
  public_key TEXT NOT NULL,    -- exported base64(PKIX DER)
  salt BLOB NOT NULL,          -- argon2id salt for the sealing key
  sealed_private BLOB NOT NULL,-- nonce || chacha20poly1305(PKCS#8 DER)
  created_at INTEGER NOT NULL  -- unix micro
);

CREATE TABLE IF NOT EXISTS settings (
  name TEXT PRIMARY KEY,
  value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS profiles (
  username TEXT PRIMARY KEY,
  nickname TEXT,
  handle TEXT,
  bio TEXT,
  avatar_color TEXT,
  avatar_emoji TEXT,
  activity TEXT,
  last_seen REAL,              -- float seconds, wire convention
  public_key TEXT              -- exported material, '' when absent
);

CREATE INDEX IF NOT EXISTS idx_profiles_last_seen ON profiles (last_seen DESC);
`
	_, err := s.db.Exec(sqlStmt)
	return err
}

// KeyRecord is a stored, sealed key pair for one identity.
type KeyRecord struct {
	Identity      string
	PublicKey     string
	Salt          []byte
	SealedPrivate []byte
	CreatedAt     time.Time
}

func (s *Store) SaveKeyMaterial(ctx context.Context, rec *KeyRecord) error {
	const q = `
INSERT INTO key_material (identity, public_key, salt, sealed_private, created_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(identity) DO UPDATE SET
  public_key = excluded.public_key,
  salt = excluded.salt,
  sealed_private = excluded.sealed_private,
  created_at = excluded.created_at;
`
	_, err := s.db.ExecContext(ctx, q,
		rec.Identity, rec.PublicKey, rec.Salt, rec.SealedPrivate, time.Now().UnixMicro())
	if err != nil {
		return fmt.Errorf("save key material: %w", err)
	}
	return nil
}

func (s *Store) GetKeyMaterial(ctx context.Context, identity string) (*KeyRecord, error) {
	const q = `
SELECT identity, public_key, salt, sealed_private, created_at
FROM key_material WHERE identity = ? LIMIT 1;
`
	var (
		rec       KeyRecord
		createdAt int64
	)
	err := s.db.QueryRowContext(ctx, q, identity).Scan(
		&rec.Identity, &rec.PublicKey, &rec.Salt, &rec.SealedPrivate, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoRows
		}
		return nil, fmt.Errorf("get key material: %w", err)
	}
	rec.CreatedAt = time.UnixMicro(createdAt)
	return &rec, nil
}

func (s *Store) SaveSetting(ctx context.Context, name, value string) error {
	const q = `
INSERT INTO settings (name, value) VALUES (?, ?)
ON CONFLICT(name) DO UPDATE SET value = excluded.value;
`
	if _, err := s.db.ExecContext(ctx, q, name, value); err != nil {
		return fmt.Errorf("save setting: %w", err)
	}
	return nil
}

func (s *Store) GetSetting(ctx context.Context, name string) (string, error) {
	const q = `SELECT value FROM settings WHERE name = ? LIMIT 1;`
	var value string
	if err := s.db.QueryRowContext(ctx, q, name).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNoRows
		}
		return "", fmt.Errorf("get setting: %w", err)
	}
	return value, nil
}

// ProfileRow mirrors the profiles cache table.
type ProfileRow struct {
	Username    string
	Nickname    string
	Handle      string
	Bio         string
	AvatarColor string
	AvatarEmoji string
	Activity    string
	LastSeen    float64
	PublicKey   string
}

func (s *Store) SaveProfile(ctx context.Context, p *ProfileRow) error {
	const q = `
INSERT INTO profiles (username, nickname, handle, bio, avatar_color, avatar_emoji, activity, last_seen, public_key)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(username) DO UPDATE SET
  nickname = excluded.nickname,
  handle = excluded.handle,
  bio = excluded.bio,
  avatar_color = excluded.avatar_color,
  avatar_emoji = excluded.avatar_emoji,
  activity = excluded.activity,
  last_seen = excluded.last_seen,
  public_key = excluded.public_key;
`
	_, err := s.db.ExecContext(ctx, q,
		p.Username, p.Nickname, p.Handle, p.Bio,
		p.AvatarColor, p.AvatarEmoji, p.Activity, p.LastSeen, p.PublicKey)
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

func (s *Store) GetProfile(ctx context.Context, username string) (*ProfileRow, error) {
	const q = `
SELECT username, nickname, handle, bio, avatar_color, avatar_emoji, activity, last_seen, public_key
FROM profiles WHERE username = ? LIMIT 1;
`
	var (
		p        ProfileRow
		nickname sql.NullString
		handle   sql.NullString
		bio      sql.NullString
		color    sql.NullString
		emoji    sql.NullString
		activity sql.NullString
		lastSeen sql.NullFloat64
		pubKey   sql.NullString
	)
	err := s.db.QueryRowContext(ctx, q, username).Scan(
		&p.Username, &nickname, &handle, &bio, &color, &emoji, &activity, &lastSeen, &pubKey)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoRows
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	p.Nickname = nickname.String
	p.Handle = handle.String
	p.Bio = bio.String
	p.AvatarColor = color.String
	p.AvatarEmoji = emoji.String
	p.Activity = activity.String
	p.LastSeen = lastSeen.Float64
	p.PublicKey = pubKey.String
	return &p, nil
}

// UpdateActivity refreshes the presence columns for a cached profile.
// Profiles we have never cached are ignored.
func (s *Store) UpdateActivity(ctx context.Context, username, activity string, lastSeen float64) error {
	const q = `UPDATE profiles SET activity = ?, last_seen = ? WHERE username = ?;`
	if _, err := s.db.ExecContext(ctx, q, activity, lastSeen, username); err != nil {
		return fmt.Errorf("update activity: %w", err)
	}
	return nil
}
