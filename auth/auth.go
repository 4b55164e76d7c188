package auth

import (
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/scriptbench/scriptbench/storage"
)

// Service handles signup and login against the user store. Passwords are
// stored as bcrypt hashes.
type Service struct {
	store *storage.Store
	log   *zap.SugaredLogger
}

func NewService(store *storage.Store, log *zap.SugaredLogger) *Service {
	return &Service{store: store, log: log}
}

// Signup registers a new user. The returned message is safe to show to the
// client whether or not registration succeeded.
func (s *Service) Signup(username, password string) (bool, string) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)

	if len(password) < 4 {
		return false, "Password must be at least 4 characters"
	}
	if len(username) < 3 {
		return false, "Username must be at least 3 characters"
	}

	existing, err := s.store.UserByName(username)
	if err != nil {
		s.log.Errorw("signup lookup failed", "username", username, "error", err)
		return false, "Database error"
	}
	if existing != nil {
		return false, "Username already exists"
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.log.Errorw("password hashing failed", "username", username, "error", err)
		return false, "Unexpected error"
	}

	if _, err := s.store.CreateUser(username, string(hash)); err != nil {
		s.log.Errorw("signup insert failed", "username", username, "error", err)
		return false, "Database error"
	}
	return true, "Signup successful"
}

// Login verifies credentials against the stored hash.
func (s *Service) Login(username, password string) bool {
	user, err := s.store.UserByName(strings.TrimSpace(username))
	if err != nil {
		s.log.Errorw("login lookup failed", "username", username, "error", err)
		return false
	}
	if user == nil {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}
