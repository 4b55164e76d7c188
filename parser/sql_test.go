package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitStatements(t *testing.T) {
	tests := []struct {
		name     string
		script   string
		expected []string
	}{
		{
			name:     "empty",
			script:   "",
			expected: nil,
		},
		{
			name:     "single_no_terminator",
			script:   "SELECT 1",
			expected: []string{"SELECT 1"},
		},
		{
			name:     "multiple",
			script:   "SELECT 1;\nSELECT 2;\n",
			expected: []string{"SELECT 1", "SELECT 2"},
		},
		{
			name:     "semicolon_in_string",
			script:   "INSERT INTO t VALUES ('a;b');SELECT 1;",
			expected: []string{"INSERT INTO t VALUES ('a;b')", "SELECT 1"},
		},
		{
			name:     "semicolon_in_line_comment",
			script:   "SELECT 1 -- trailing; not a terminator\n;SELECT 2;",
			expected: []string{"SELECT 1 -- trailing; not a terminator", "SELECT 2"},
		},
		{
			name:     "semicolon_in_block_comment",
			script:   "SELECT /* a;b */ 1; SELECT 2;",
			expected: []string{"SELECT /* a;b */ 1", "SELECT 2"},
		},
		{
			name:     "trailing_whitespace_dropped",
			script:   "DROP TABLE users;\n\n   ",
			expected: []string{"DROP TABLE users"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SplitStatements(tt.script))
		})
	}
}

func TestClassifyStatement(t *testing.T) {
	tests := []struct {
		name     string
		stmt     string
		kind     string
		expected bool
	}{
		{"select", "SELECT * FROM t", "SELECT", true},
		{"lowercase_insert", "insert into t values (1)", "INSERT", true},
		{"create", "CREATE TABLE t (id INTEGER)", "CREATE", true},
		{"replace", "REPLACE INTO t VALUES (1)", "REPLACE", true},
		{"merge", "MERGE INTO t USING s ON t.id = s.id", "MERGE", true},
		{"leading_line_comment", "-- setup\nDROP TABLE t", "DROP", true},
		{"leading_block_comment", "/* setup */ ALTER TABLE t ADD c INT", "ALTER", true},
		{"cte_is_unclassifiable", "WITH x AS (SELECT 1) SELECT * FROM x", "", false},
		{"truncate_is_unclassifiable", "TRUNCATE TABLE t", "", false},
		{"grant_is_unclassifiable", "GRANT ALL ON db TO u", "", false},
		{"revoke_is_unclassifiable", "REVOKE ALL ON db FROM u", "", false},
		{"use_is_unclassifiable", "USE db", "", false},
		{"call_is_unclassifiable", "CALL refresh_stats()", "", false},
		{"garbage", "this is not sql", "", false},
		{"comment_only", "-- nothing here", "", false},
		{"unterminated_block_comment", "/* open", "", false},
		{"empty", "", "", false},
		{"exec_is_unclassifiable", "EXEC('sp_x')", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, ok := ClassifyStatement(tt.stmt)
			assert.Equal(t, tt.expected, ok)
			assert.Equal(t, tt.kind, kind)
		})
	}
}
