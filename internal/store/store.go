// Package store persists user credentials and canvas stroke snapshots in a
// sqlite database. Only the stroke log is persisted per canvas; membership
// and undo/redo history live in memory for the process lifetime.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/crypto/bcrypt"

	"DrawSync/internal/canvas"
)

var (
	// ErrUsernameTaken is returned when registering an existing username.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrUnknownUser is returned when authenticating a username that was
	// never registered.
	ErrUnknownUser = errors.New("username does not exist")
	// ErrBadPassword is returned on a password mismatch.
	ErrBadPassword = errors.New("incorrect password")
	// ErrNotFound is returned when no snapshot exists for a canvas name.
	ErrNotFound = errors.New("canvas not found")
)

// Store wraps the shared database handle.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and ensures the schema
// exists. Use ":memory:" for an ephemeral store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	s := &Store{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	if _, err := s.db.Exec(
		`CREATE TABLE IF NOT EXISTS users (
		username text not null primary key,
		password_hash text not null
		)`,
	); err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}
	if _, err := s.db.Exec(
		`CREATE TABLE IF NOT EXISTS canvases (
		name text not null primary key,
		strokes text not null
		)`,
	); err != nil {
		return fmt.Errorf("failed to create canvases table: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Register creates a user with a bcrypt-hashed password. Usernames are
// immutable and never deleted; registering twice fails with
// ErrUsernameTaken.
func (s *Store) Register(username, password string) error {
	var exists int
	err := s.db.QueryRow(`SELECT 1 FROM users WHERE username = ?`, username).Scan(&exists)
	switch {
	case err == nil:
		return ErrUsernameTaken
	case !errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("failed to query user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if _, err := s.db.Exec(
		`INSERT INTO users(username, password_hash) VALUES (?, ?)`,
		username, string(hash),
	); err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// Authenticate verifies a username/password pair.
func (s *Store) Authenticate(username, password string) error {
	var hash string
	err := s.db.QueryRow(`SELECT password_hash FROM users WHERE username = ?`, username).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrUnknownUser
	}
	if err != nil {
		return fmt.Errorf("failed to query user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return ErrBadPassword
	}
	return nil
}

// SaveStrokes writes the stroke log for a canvas, replacing any previous
// snapshot under the same name.
func (s *Store) SaveStrokes(name string, strokes []canvas.Stroke) error {
	if strokes == nil {
		strokes = make([]canvas.Stroke, 0)
	}
	doc, err := json.Marshal(strokes)
	if err != nil {
		return fmt.Errorf("failed to encode strokes: %w", err)
	}
	if _, err := s.db.Exec(
		`INSERT INTO canvases(name, strokes) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET strokes = excluded.strokes`,
		name, string(doc),
	); err != nil {
		return fmt.Errorf("failed to save canvas %q: %w", name, err)
	}
	return nil
}

// LoadStrokes reads the stored stroke log for a canvas name.
func (s *Store) LoadStrokes(name string) ([]canvas.Stroke, error) {
	var doc string
	err := s.db.QueryRow(`SELECT strokes FROM canvases WHERE name = ?`, name).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load canvas %q: %w", name, err)
	}
	var strokes []canvas.Stroke
	if err := json.Unmarshal([]byte(doc), &strokes); err != nil {
		return nil, fmt.Errorf("failed to decode strokes for %q: %w", name, err)
	}
	if strokes == nil {
		strokes = make([]canvas.Stroke, 0)
	}
	return strokes, nil
}
