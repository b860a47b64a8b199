package commands_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/plsense/internal/categorizer"
	"github.com/cleared-dev/plsense/internal/commands"
	"github.com/cleared-dev/plsense/internal/config"
	"github.com/cleared-dev/plsense/internal/export"
	"github.com/cleared-dev/plsense/internal/model"
	"github.com/cleared-dev/plsense/internal/runlog"
	"github.com/cleared-dev/plsense/internal/taxonomy"
)

const samplePL = "../../testdata/sample_pl.csv"

// runPLSense executes the root command in-process and returns its stdout.
func runPLSense(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := commands.NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func initProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	_, err := runPLSense(t, "init", dir)
	require.NoError(t, err)
	return dir
}

func copyFile(t *testing.T, src, dst string) {
	t.Helper()
	data, err := os.ReadFile(src)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(dst, data, 0o644))
}

func TestInit_CreatesStructure(t *testing.T) {
	dir := initProject(t)

	for _, d := range []string{"import", filepath.Join("import", "processed"), "exports", "logs"} {
		info, err := os.Stat(filepath.Join(dir, d))
		require.NoError(t, err, "directory %s should exist", d)
		assert.True(t, info.IsDir())
	}
	assert.FileExists(t, filepath.Join(dir, ".gitignore"))
	assert.FileExists(t, filepath.Join(dir, "import", ".gitkeep"))

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	assert.Equal(t, "taxonomy.yaml", cfg.TaxonomyFile)
	assert.False(t, cfg.Categorizer.UseAI)

	tax, err := taxonomy.LoadFile(filepath.Join(dir, "taxonomy.yaml"))
	require.NoError(t, err)
	assert.Equal(t, taxonomy.Default().Categories(), tax.Categories())
}

func TestInit_RefusesOverwrite(t *testing.T) {
	dir := initProject(t)

	_, err := runPLSense(t, "init", dir)
	assert.ErrorContains(t, err, "already exists")

	_, err = runPLSense(t, "init", dir, "--force")
	assert.NoError(t, err)
}

func TestRoot_Version(t *testing.T) {
	out, err := runPLSense(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "plsense version dev")
}

func TestRoot_UnknownOutput(t *testing.T) {
	_, err := runPLSense(t, "parse", samplePL, "-o", "xml")
	assert.ErrorContains(t, err, "unknown output format")
}

func TestParse_Text(t *testing.T) {
	out, err := runPLSense(t, "parse", samplePL)
	require.NoError(t, err)
	assert.Contains(t, out, `header row 3, account column "Account"`)
	assert.Contains(t, out, "periods: 2024-01, 2024-02, 2024-03, 2024-04, 2024-05, 2024-06")
	assert.Contains(t, out, "Subscription Revenue")
	assert.Contains(t, out, "23 rows")
}

func TestParse_JSON(t *testing.T) {
	out, err := runPLSense(t, "parse", samplePL, "-o", "json")
	require.NoError(t, err)

	var got struct {
		StatementID string `json:"statement_id"`
		Items       []struct {
			AccountName string `json:"account_name"`
			Category    string `json:"category"`
			NeedsReview bool   `json:"needs_review"`
		} `json:"line_items"`
		Summary struct {
			Rows        int `json:"rows"`
			NeedsReview int `json:"needs_review"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.NotEmpty(t, got.StatementID)
	assert.Len(t, got.Items, 23)
	assert.Equal(t, 23, got.Summary.Rows)

	review, err := runPLSense(t, "parse", samplePL, "-o", "json", "--needs-review")
	require.NoError(t, err)
	var reviewed struct {
		Items []struct {
			NeedsReview bool `json:"needs_review"`
		} `json:"line_items"`
	}
	require.NoError(t, json.Unmarshal([]byte(review), &reviewed))
	assert.Len(t, reviewed.Items, got.Summary.NeedsReview)
	for _, item := range reviewed.Items {
		assert.True(t, item.NeedsReview)
	}
}

func TestParse_HintErrors(t *testing.T) {
	_, err := runPLSense(t, "parse", samplePL, "--header-row", "3", "--account-column", "Nope")
	assert.Error(t, err)

	_, err = runPLSense(t, "parse", "missing.pdf")
	assert.ErrorContains(t, err, "unsupported file type")
}

func TestParse_FileCategorizer(t *testing.T) {
	dir := t.TempDir()
	mappings := "mappings:\n  Hosting Costs:\n    category: Cost of Goods Sold\n    subcategory: Cost of Services\n    confidence: 0.95\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mappings.yaml"), []byte(mappings), 0o644))
	cfg := config.Default()
	cfg.Categorizer.UseAI = true
	cfg.Categorizer.Provider = string(categorizer.ProviderFile)
	cfg.Categorizer.MappingsFile = "mappings.yaml"
	cfgPath := filepath.Join(dir, config.FileName)
	require.NoError(t, config.Save(cfgPath, cfg))

	out, err := runPLSense(t, "--config", cfgPath, "parse", samplePL, "-o", "json")
	require.NoError(t, err)

	var got struct {
		Items []model.LineItem `json:"line_items"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	found := false
	for _, item := range got.Items {
		if item.AccountName == "Hosting Costs" {
			found = true
			assert.Equal(t, model.CategoryCOGS, item.Category)
			assert.Equal(t, model.MethodAI, item.MappingMethod)
		}
	}
	assert.True(t, found)
}

func TestMetrics_Runway(t *testing.T) {
	out, err := runPLSense(t, "metrics", samplePL, "--cash", "150000", "--as-of", "2024-06-30", "-o", "json")
	require.NoError(t, err)

	var got model.MetricsResult
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got.Aggregates, 6)
	assert.Equal(t, "45120", got.Aggregates[0].Revenue.String())
	require.NotNil(t, got.Runway)
	assert.Equal(t, model.RunwayCritical, got.Runway.Status)

	text, err := runPLSense(t, "metrics", samplePL, "--cash", "150000", "--as-of", "2024-06-30")
	require.NoError(t, err)
	assert.Contains(t, text, "Runway")
	assert.Contains(t, text, "critical")
}

func TestMetrics_NoCashNoRunway(t *testing.T) {
	out, err := runPLSense(t, "metrics", samplePL, "-o", "json")
	require.NoError(t, err)
	var got model.MetricsResult
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Nil(t, got.Runway)
}

func TestMetrics_BadAsOf(t *testing.T) {
	_, err := runPLSense(t, "metrics", samplePL, "--as-of", "30/06/2024")
	assert.ErrorContains(t, err, "--as-of")
}

func TestWaterfall_JSON(t *testing.T) {
	out, err := runPLSense(t, "waterfall", samplePL, "--metric", "net_profit",
		"--p1", "2024-01:2024-03", "--p2", "2024-04:2024-06", "--top-n", "3", "-o", "json")
	require.NoError(t, err)

	var got model.WaterfallResult
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "net_profit", got.Metric)
	assert.LessOrEqual(t, got.DriverCount, 3)
	require.NotEmpty(t, got.Segments)
	assert.Equal(t, model.SegmentStart, got.Segments[0].Kind)
	assert.Equal(t, model.SegmentEnd, got.Segments[len(got.Segments)-1].Kind)
	assert.True(t, got.Period2Total.Sub(got.Period1Total).Equal(got.TotalMovement))
}

func TestWaterfall_ZeroTopN(t *testing.T) {
	out, err := runPLSense(t, "waterfall", samplePL, "--top-n", "0", "-o", "json")
	require.NoError(t, err)

	var got model.WaterfallResult
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Zero(t, got.DriverCount)
	for _, seg := range got.Segments {
		assert.NotEqual(t, model.SegmentDriver, seg.Kind)
	}

	_, err = runPLSense(t, "waterfall", samplePL, "--top-n=-1")
	assert.ErrorContains(t, err, "--top-n")
}

func TestWaterfall_DefaultRanges(t *testing.T) {
	out, err := runPLSense(t, "waterfall", samplePL)
	require.NoError(t, err)
	assert.Contains(t, out, "Total Revenue Period 1")
	assert.Contains(t, out, "Total Revenue Period 2")
	assert.Contains(t, out, "movement")
}

func TestWaterfall_Errors(t *testing.T) {
	_, err := runPLSense(t, "waterfall", samplePL, "--metric", "ebitda")
	var unknown *model.UnknownMetricError
	assert.True(t, errors.As(err, &unknown))

	_, err = runPLSense(t, "waterfall", samplePL, "--p1", "2024-06:2024-01", "--p2", "2024-06")
	assert.ErrorContains(t, err, "--p1")

	_, err = runPLSense(t, "waterfall", samplePL, "--p1", "2024-01")
	var insufficient *model.InsufficientDataError
	assert.True(t, errors.As(err, &insufficient))
}

func TestPeriods(t *testing.T) {
	out, err := runPLSense(t, "periods", samplePL, "-o", "json")
	require.NoError(t, err)

	var got struct {
		Available []string `json:"available_periods"`
		Suggested struct {
			Period1 []string `json:"period1"`
			Period2 []string `json:"period2"`
		} `json:"suggested_ranges"`
		Metrics []struct {
			Value string `json:"value"`
		} `json:"metric_options"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Len(t, got.Available, 6)
	assert.Equal(t, []string{"2024-01", "2024-02", "2024-03"}, got.Suggested.Period1)
	assert.Equal(t, []string{"2024-04", "2024-05", "2024-06"}, got.Suggested.Period2)
	require.NotEmpty(t, got.Metrics)
	assert.Equal(t, "revenue", got.Metrics[0].Value)

	text, err := runPLSense(t, "periods", samplePL)
	require.NoError(t, err)
	assert.Contains(t, text, "suggested: 2024-01:2024-03 vs 2024-04:2024-06")
}

func TestExport_FileAndMappings(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "items.csv")
	mapPath := filepath.Join(dir, "mappings.yaml")

	out, err := runPLSense(t, "export", samplePL, "--out", csvPath, "--mappings", mapPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 23 rows")

	f, err := os.Open(csvPath)
	require.NoError(t, err)
	defer f.Close()
	periods, items, err := export.ReadLineItems(f)
	require.NoError(t, err)
	assert.Len(t, periods, 6)
	assert.Len(t, items, 23)

	_, err = categorizer.LoadFile(mapPath)
	assert.NoError(t, err)
}

func TestExport_Compare(t *testing.T) {
	dir := t.TempDir()
	priorPath := filepath.Join(dir, "prior.csv")
	_, err := runPLSense(t, "export", samplePL, "--out", priorPath)
	require.NoError(t, err)

	out, err := runPLSense(t, "export", samplePL, "--out", filepath.Join(dir, "same.csv"), "--compare", priorPath)
	require.NoError(t, err)
	assert.Contains(t, out, "No category changes since "+priorPath)

	f, err := os.Open(priorPath)
	require.NoError(t, err)
	names, items, err := export.ReadLineItems(f)
	require.NoError(t, f.Close())
	require.NoError(t, err)

	var edited []model.LineItem
	for _, it := range items {
		switch it.AccountName {
		case "Interest Expense":
			continue
		case "Rent Expense":
			it.Category = model.CategoryTax
		}
		edited = append(edited, it)
	}
	edited = append(edited, model.LineItem{
		AccountName: "Legacy Fees", RowType: model.RowTypeLineItem,
		Category: model.CategoryOpex, MappingMethod: model.MethodFuzzy,
	})
	periods := make([]model.Period, len(names))
	for i, n := range names {
		periods[i] = model.Period{Key: n, Position: i}
	}
	require.NoError(t, exportItemsTo(t, priorPath, periods, edited))

	out, err = runPLSense(t, "export", samplePL, "--out", filepath.Join(dir, "new.csv"), "--compare", priorPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Changes since "+priorPath)
	assert.Regexp(t, `Rent Expense\s+recategorized\s+Tax\s+Operating Expenses`, out)
	assert.Regexp(t, `Interest Expense\s+added`, out)
	assert.Regexp(t, `Legacy Fees\s+removed\s+Operating Expenses`, out)

	_, err = runPLSense(t, "export", samplePL, "--compare", filepath.Join(dir, "missing.csv"))
	assert.ErrorContains(t, err, "missing.csv")
}

func exportItemsTo(t *testing.T, path string, periods []model.Period, items []model.LineItem) error {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	return export.WriteLineItems(f, periods, items)
}

func TestHistory(t *testing.T) {
	dir := initProject(t)

	out, err := runPLSense(t, "history", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "No runs recorded")

	copyFile(t, samplePL, filepath.Join(dir, "import", "sample_pl.csv"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "import", "broken.csv"), []byte{}, 0o644))
	_, err = runPLSense(t, "--config", filepath.Join(dir, config.FileName), "batch", dir)
	require.NoError(t, err)

	out, err = runPLSense(t, "history", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "sample_pl.csv")
	assert.Contains(t, out, "broken.csv")

	out, err = runPLSense(t, "history", dir, "--failed", "-o", "json")
	require.NoError(t, err)
	var failed []runlog.Entry
	require.NoError(t, json.Unmarshal([]byte(out), &failed))
	require.Len(t, failed, 1)
	assert.Equal(t, "broken.csv", failed[0].File)
	assert.Equal(t, runlog.StatusFailed, failed[0].Status)

	out, err = runPLSense(t, "history", dir, "--limit", "1", "-o", "json")
	require.NoError(t, err)
	var last []runlog.Entry
	require.NoError(t, json.Unmarshal([]byte(out), &last))
	require.Len(t, last, 1)
	assert.Equal(t, "sample_pl.csv", last[0].File)
	assert.Equal(t, 23, last[0].Rows)

	_, err = runPLSense(t, "history", dir, "--limit=-1")
	assert.ErrorContains(t, err, "--limit")
}

func TestExport_Stdout(t *testing.T) {
	out, err := runPLSense(t, "export", samplePL)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "row_id,account_name,"))
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 24)
}

func TestBatch(t *testing.T) {
	dir := initProject(t)
	copyFile(t, samplePL, filepath.Join(dir, "import", "sample_pl.csv"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "import", "broken.csv"), []byte{}, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "import", "notes.txt"), []byte("skip"), 0o644))

	out, err := runPLSense(t, "--config", filepath.Join(dir, config.FileName),
		"batch", dir, "--move-processed", "--export", "--concurrency", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "1 analyzed, 1 failed")

	entries, err := runlog.Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "broken.csv", entries[0].File)
	assert.Equal(t, runlog.StatusFailed, entries[0].Status)
	assert.NotEmpty(t, entries[0].Details)
	assert.Equal(t, "sample_pl.csv", entries[1].File)
	assert.Equal(t, runlog.StatusOK, entries[1].Status)
	assert.Equal(t, 23, entries[1].Rows)
	assert.Equal(t, 6, entries[1].Periods)
	assert.NotEmpty(t, entries[1].StatementID)

	assert.FileExists(t, filepath.Join(dir, "import", "processed", "sample_pl.csv"))
	assert.FileExists(t, filepath.Join(dir, "import", "broken.csv"))
	assert.FileExists(t, filepath.Join(dir, "import", "notes.txt"))
	assert.FileExists(t, filepath.Join(dir, "exports", "sample_pl.csv"))
}

func TestBatch_Empty(t *testing.T) {
	dir := initProject(t)

	out, err := runPLSense(t, "--config", filepath.Join(dir, config.FileName), "batch", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "No files to analyze")

	_, err = runPLSense(t, "batch", dir, "--concurrency", "0")
	assert.ErrorContains(t, err, "--concurrency")
}
