package pipeline

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/sales-etl/internal/config"
	"github.com/sells-group/sales-etl/internal/model"
	"github.com/sells-group/sales-etl/internal/store"
)

func testConfig(t *testing.T, sourcePath string) *config.Config {
	t.Helper()
	return &config.Config{
		Source: config.SourceConfig{Path: sourcePath, DateFormat: "2006-01-02"},
		Output: config.OutputConfig{Path: filepath.Join(t.TempDir(), "cleaned.csv")},
		Store:  config.StoreConfig{Driver: "sqlite", Table: "sales_data"},
	}
}

func newTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background(), "sales_data"))
	return st
}

// writeScenarioCSV builds a 520-row extract: 500 distinct rows of which the
// first 18 have unparsable dates, plus 20 exact full-row duplicates of
// earlier valid rows appended at the end.
func writeScenarioCSV(t *testing.T) string {
	t.Helper()
	var sb strings.Builder
	sb.WriteString(sourceHeader)

	line := func(id int, date string) string {
		return fmt.Sprintf("%d,%s,customer%d,North,Widget,%d,%d\n", id, date, id, 100+id, 60+id)
	}

	for i := 1; i <= 500; i++ {
		date := fmt.Sprintf("2024-01-%02d", (i%28)+1)
		if i <= 18 {
			date = "31/01/2024" // wrong format, fails the fixed layout
		}
		sb.WriteString(line(i, date))
	}
	for i := 100; i < 120; i++ {
		date := fmt.Sprintf("2024-01-%02d", (i%28)+1)
		sb.WriteString(line(i, date)) // exact duplicates of earlier rows
	}

	path := filepath.Join(t.TempDir(), "sales_raw_520.csv")
	require.NoError(t, os.WriteFile(path, []byte(sb.String()), 0o644))
	return path
}

func readOutputCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestPipeline_ScenarioCounts(t *testing.T) {
	cfg := testConfig(t, writeScenarioCSV(t))
	st := newTestStore(t)

	summary, err := New(cfg, st).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 520, summary.RowsLoaded)
	assert.Equal(t, 20, summary.DuplicatesRemoved)
	assert.Equal(t, 18, summary.InvalidDropped)
	assert.Equal(t, 482, summary.RowsWritten)
	assert.Equal(t, model.RunStatusSuccess, summary.Status)

	// Counter arithmetic must reconcile exactly.
	assert.Equal(t, summary.RowsLoaded-summary.DuplicatesRemoved-summary.InvalidDropped, summary.RowsWritten)

	rows := readOutputCSV(t, cfg.Output.Path)
	assert.Len(t, rows, 483) // header + 482 records
}

func TestPipeline_OutputInvariants(t *testing.T) {
	cfg := testConfig(t, writeScenarioCSV(t))

	summary, err := New(cfg, nil).Run(context.Background())
	require.NoError(t, err)

	rows := readOutputCSV(t, cfg.Output.Path)
	require.Equal(t, summary.RowsWritten+1, len(rows))

	assert.Equal(t, []string{
		"Order_ID", "Order_Date", "Customer", "Region", "Product",
		"Sales", "Cost", "Profit", "Year", "Month",
	}, rows[0])

	// Verified over the full output, not sampled.
	for _, row := range rows[1:] {
		require.Len(t, row, 10)
		assert.NotEmpty(t, row[1]) // date
		assert.NotEmpty(t, row[2]) // customer
		assert.NotEmpty(t, row[3]) // region
		assert.Equal(t, "2024", row[8])
		assert.Equal(t, "1", row[9])
	}
}

func TestPipeline_NegativeProfit(t *testing.T) {
	src := writeTestCSV(t, sourceHeader+"1,2024-01-01,alice,North,Widget,100,140\n")
	cfg := testConfig(t, src)

	summary, err := New(cfg, nil).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.RowsWritten)

	rows := readOutputCSV(t, cfg.Output.Path)
	require.Len(t, rows, 2)
	assert.Equal(t, "-40", rows[1][7]) // profit, not clamped
}

func TestPipeline_OrderPreservedEndToEnd(t *testing.T) {
	src := writeTestCSV(t, sourceHeader+
		"30,2024-01-03,carol,East,Widget,300,100\n"+
		"10,2024-01-01,alice,North,Widget,100,60\n"+
		"99,bogus-date,zed,West,Widget,1,1\n"+
		"20,2024-01-02,bob,South,Gadget,200,150\n")
	cfg := testConfig(t, src)

	_, err := New(cfg, nil).Run(context.Background())
	require.NoError(t, err)

	rows := readOutputCSV(t, cfg.Output.Path)
	require.Len(t, rows, 4)
	assert.Equal(t, "30", rows[1][0])
	assert.Equal(t, "10", rows[2][0])
	assert.Equal(t, "20", rows[3][0])
}

func TestPipeline_RerunByteIdentical(t *testing.T) {
	cfg := testConfig(t, writeScenarioCSV(t))

	_, err := New(cfg, nil).Run(context.Background())
	require.NoError(t, err)
	first, err := os.ReadFile(cfg.Output.Path)
	require.NoError(t, err)

	_, err = New(cfg, nil).Run(context.Background())
	require.NoError(t, err)
	second, err := os.ReadFile(cfg.Output.Path)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestPipeline_SourceReadErrorHaltsBeforeSinks(t *testing.T) {
	src := writeTestCSV(t, "Order_ID,Order_Date,Customer,Region,Product,Sales\n")
	cfg := testConfig(t, src)

	summary, err := New(cfg, nil).Run(context.Background())

	var runErr *RunError
	require.ErrorAs(t, err, &runErr)
	assert.Equal(t, StageLoad, runErr.Stage)
	var srcErr *SourceReadError
	assert.ErrorAs(t, err, &srcErr)

	assert.Equal(t, 0, summary.RowsLoaded)
	assert.Equal(t, model.RunStatusFailed, summary.Status)
	assert.Equal(t, StageLoad, summary.FailedStage)
	assert.NoFileExists(t, cfg.Output.Path)
}

func TestPipeline_DBSinkFailureKeepsCSV(t *testing.T) {
	src := writeTestCSV(t, sourceHeader+"1,2024-01-01,alice,North,Widget,100,60\n")
	cfg := testConfig(t, src)

	// Store without a migrated table: the db sink fails, the csv sink
	// already succeeded and is not rolled back.
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer st.Close()

	summary, runErr := New(cfg, st).Run(context.Background())

	var re *RunError
	require.ErrorAs(t, runErr, &re)
	assert.Equal(t, StageSinkDB, re.Stage)
	var sinkErr *SinkWriteError
	assert.ErrorAs(t, runErr, &sinkErr)
	assert.Equal(t, "db", sinkErr.Sink)

	// Counters accumulated up to the failure are reported, including the
	// rows the csv sink did write.
	assert.Equal(t, 1, summary.RowsLoaded)
	assert.Equal(t, 1, summary.RowsWritten)
	assert.FileExists(t, cfg.Output.Path)
	assert.Len(t, readOutputCSV(t, cfg.Output.Path), 2)
}

func TestPipeline_DatabaseSinkReplaces(t *testing.T) {
	src := writeTestCSV(t, sourceHeader+
		"1,2024-01-01,alice,North,Widget,100,60\n"+
		"2,2024-01-02,bob,South,Gadget,200,150\n")
	cfg := testConfig(t, src)
	st := newTestStore(t)

	// Run twice: whole-batch replace keeps the table contents identical.
	_, err := New(cfg, st).Run(context.Background())
	require.NoError(t, err)
	summary, err := New(cfg, st).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, summary.RowsWritten)
}
