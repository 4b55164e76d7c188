package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/scriptbench/scriptbench/security"
)

// Store is the relational run log: users, their uploaded files and every
// execution with its performance and security metrics.
type Store struct {
	db *sql.DB
}

// User is one registered account.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// File is one uploaded script owned by a user.
type File struct {
	ID       int64
	Filename string
	Filepath string
	Filetype string
	UserID   int64
}

// HistoryEntry is one row of a user's execution history, joined with the
// file it ran.
type HistoryEntry struct {
	Filename      string             `json:"filename"`
	Filetype      string             `json:"filetype"`
	ExecTime      float64            `json:"exec_time"`
	PeakMemoryMB  float64            `json:"peak_memory"`
	SecurityScore int                `json:"security_score"`
	RiskLevel     security.RiskLevel `json:"risk_level"`
	Timestamp     time.Time          `json:"timestamp"`
}

// RunRecord is one persisted run of a file with both its performance
// metrics and the security assessment restored from the log.
type RunRecord struct {
	Filename      string             `json:"filename"`
	Filetype      string             `json:"filetype"`
	ExecTime      float64            `json:"exec_time"`
	PeakMemoryMB  float64            `json:"peak_memory"`
	SecurityScore int                `json:"security_score"`
	RiskLevel     security.RiskLevel `json:"risk_level"`
	Issues        []string           `json:"security_issues"`
	Timestamp     time.Time          `json:"timestamp"`
}

// Open opens (creating if needed) the sqlite database at path and applies
// the schema. Foreign keys are enforced on every connection.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// CreateUser inserts a new account and returns its id.
func (s *Store) CreateUser(username, passwordHash string) (int64, error) {
	res, err := s.db.Exec(
		"INSERT INTO users (username, password) VALUES (?, ?)",
		username, passwordHash,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create user %s: %w", username, err)
	}
	return res.LastInsertId()
}

// UserByName looks up an account case-insensitively. A missing user is
// (nil, nil), not an error.
func (s *Store) UserByName(username string) (*User, error) {
	var u User
	err := s.db.QueryRow(
		"SELECT id, username, password, created_at FROM users WHERE username = ?",
		username,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user %s: %w", username, err)
	}
	return &u, nil
}

// ListUsers returns all accounts ordered by id.
func (s *Store) ListUsers() ([]User, error) {
	rows, err := s.db.Query("SELECT id, username, password, created_at FROM users ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// UpsertFile records an upload. Re-uploading the same filename for the same
// user replaces the stored path and type and keeps the file id.
func (s *Store) UpsertFile(userID int64, filename, path, filetype string) (int64, error) {
	_, err := s.db.Exec(`
		INSERT INTO files (filename, filepath, filetype, user_id)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, filename) DO UPDATE SET
		    filepath = excluded.filepath,
		    filetype = excluded.filetype`,
		filename, path, filetype, userID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to record upload of %s: %w", filename, err)
	}

	var fileID int64
	err = s.db.QueryRow(
		"SELECT file_id FROM files WHERE user_id = ? AND filename = ?",
		userID, filename,
	).Scan(&fileID)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve file id for %s: %w", filename, err)
	}
	return fileID, nil
}

// FileByName resolves an uploaded file for a user. A missing file is
// (nil, nil).
func (s *Store) FileByName(userID int64, filename string) (*File, error) {
	var f File
	err := s.db.QueryRow(
		"SELECT file_id, filename, filepath, filetype, user_id FROM files WHERE user_id = ? AND filename = ?",
		userID, filename,
	).Scan(&f.ID, &f.Filename, &f.Filepath, &f.Filetype, &f.UserID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up file %s: %w", filename, err)
	}
	return &f, nil
}

// LogExecution persists one run with its performance metrics and the
// security assessment. The issue list is serialized as JSON text.
func (s *Store) LogExecution(userID, fileID int64, execTime, peakMemoryMB float64, report security.Report) error {
	issues, err := json.Marshal(report.Issues)
	if err != nil {
		return fmt.Errorf("failed to serialize security issues: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO run_logs (user_id, file_id, execution_time, memory_usage,
		                      security_score, risk_level, security_issues)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		userID, fileID, execTime, peakMemoryMB,
		report.Score, string(report.RiskLevel), string(issues),
	)
	if err != nil {
		return fmt.Errorf("failed to log execution: %w", err)
	}
	return nil
}

// LatestRun returns the most recent persisted run of a file, or (nil, nil)
// if the file has never been run.
func (s *Store) LatestRun(fileID int64) (*RunRecord, error) {
	var r RunRecord
	var risk, issues string
	err := s.db.QueryRow(`
		SELECT f.filename, f.filetype, r.execution_time, r.memory_usage,
		       r.security_score, r.risk_level, r.security_issues, r.timestamp
		FROM run_logs r
		JOIN files f ON r.file_id = f.file_id
		WHERE r.file_id = ?
		ORDER BY r.timestamp DESC, r.log_id DESC
		LIMIT 1`,
		fileID,
	).Scan(&r.Filename, &r.Filetype, &r.ExecTime, &r.PeakMemoryMB,
		&r.SecurityScore, &risk, &issues, &r.Timestamp)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch latest run: %w", err)
	}

	r.RiskLevel = security.RiskLevel(risk)
	if err := json.Unmarshal([]byte(issues), &r.Issues); err != nil {
		return nil, fmt.Errorf("failed to decode logged security issues: %w", err)
	}
	return &r, nil
}

// History returns a user's runs, newest first.
func (s *Store) History(userID int64) ([]HistoryEntry, error) {
	rows, err := s.db.Query(`
		SELECT f.filename, f.filetype, r.execution_time, r.memory_usage,
		       r.security_score, r.risk_level, r.timestamp
		FROM run_logs r
		JOIN files f ON r.file_id = f.file_id
		WHERE r.user_id = ?
		ORDER BY r.timestamp DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch history: %w", err)
	}
	defer rows.Close()

	var history []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		var risk string
		if err := rows.Scan(&e.Filename, &e.Filetype, &e.ExecTime, &e.PeakMemoryMB,
			&e.SecurityScore, &risk, &e.Timestamp); err != nil {
			return nil, err
		}
		e.RiskLevel = security.RiskLevel(risk)
		history = append(history, e)
	}
	return history, rows.Err()
}
