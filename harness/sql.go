package harness

import (
	"context"
	"database/sql"
	"fmt"
	"runtime"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/scriptbench/scriptbench/parser"
)

// RunSQL executes the uploaded script against a throwaway in-memory
// database, so a run can never touch persistent state. Unlike the Python
// harness the run happens in-process; peak memory is approximated from heap
// allocation during the run.
func RunSQL(ctx context.Context, path string) (*Result, error) {
	source, err := parser.ReadSourceFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory database: %w", err)
	}
	defer db.Close()

	var before runtime.MemStats
	runtime.ReadMemStats(&before)

	start := time.Now()
	if _, err := db.ExecContext(ctx, string(source)); err != nil {
		return nil, fmt.Errorf("sql execution failed: %w", err)
	}
	elapsed := time.Since(start).Seconds()

	var after runtime.MemStats
	runtime.ReadMemStats(&after)
	peakMB := float64(after.TotalAlloc-before.TotalAlloc) / (1024 * 1024)

	return buildResult(path, elapsed, peakMB), nil
}
