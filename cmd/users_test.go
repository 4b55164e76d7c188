package cmd

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scriptbench/scriptbench/security"
	"github.com/scriptbench/scriptbench/storage"
)

func TestUsersTable(t *testing.T) {
	created := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	users := []storage.User{
		{ID: 1, Username: "alice", CreatedAt: created},
		{ID: 2, Username: "bob", CreatedAt: created},
	}

	data := usersTable(users)

	require.Len(t, data, 3)
	assert.Equal(t, []string{"ID", "Username", "Created"}, data[0])
	assert.Equal(t, []string{"1", "alice", "2026-08-30 12:00:00"}, data[1])
	assert.Equal(t, []string{"2", "bob", "2026-08-30 12:00:00"}, data[2])
}

func TestHistoryTable(t *testing.T) {
	ran := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	history := []storage.HistoryEntry{
		{
			Filename:      "a.py",
			Filetype:      "py",
			ExecTime:      0.1234,
			PeakMemoryMB:  7.5,
			SecurityScore: 90,
			RiskLevel:     security.RiskLow,
			Timestamp:     ran,
		},
	}

	data := historyTable(history)

	require.Len(t, data, 2)
	assert.Equal(t, []string{
		"a.py", "py", "0.1234", "7.50", "90", "Low", "2026-08-30 12:00:00",
	}, data[1])
}

func TestShowUserHistoryUnknownUser(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "cmd.db"))
	require.NoError(t, err)
	defer store.Close()

	err = showUserHistory(store, "nobody")
	assert.ErrorContains(t, err, "no such user")
}

func TestListUsersEmptyStore(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "cmd.db"))
	require.NoError(t, err)
	defer store.Close()

	assert.NoError(t, listUsers(store))
}
