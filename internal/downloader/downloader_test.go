package downloader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"marketdownloader/internal/fetcher"
	"marketdownloader/internal/market"
	"marketdownloader/internal/reporter"
	"marketdownloader/internal/storage"
	"marketdownloader/internal/testutil"
)

var params = market.Params{Period: market.Period1y, Interval: market.Interval1d}

type failingStore struct{ storage.CSV }

func (failingStore) Write(*market.Dataset, string) error {
	return errors.New("read-only file system")
}

func TestFetchOne_Success(t *testing.T) {
	rec := reporter.NewRecorder()
	provider := testutil.NewMockProvider(map[string]int{"AAPL": 10}, nil)
	d := New(provider, rec)

	ds, err := d.FetchOne(context.Background(), "AAPL", params, "")
	if err != nil {
		t.Fatalf("FetchOne() returned unexpected error: %v", err)
	}
	if ds.Len() != 10 {
		t.Errorf("FetchOne() rows = %d, want 10", ds.Len())
	}
	if ds.Ticker != "AAPL" || ds.Params != params {
		t.Errorf("FetchOne() identity = (%s, %+v), want (AAPL, %+v)", ds.Ticker, ds.Params, params)
	}

	want := []reporter.EventType{reporter.EventStart, reporter.EventComplete, reporter.EventStats}
	assertTypes(t, rec.Types(), want)

	complete := rec.Filter(reporter.EventComplete, "AAPL")[0]
	if complete.Rows != 10 || complete.Path != "" {
		t.Errorf("complete event = (%d rows, %q), want (10 rows, no path)", complete.Rows, complete.Path)
	}
}

func TestFetchOne_Persists(t *testing.T) {
	dir := t.TempDir()
	d := New(testutil.NewMockProvider(map[string]int{"AAPL": 5}, nil), nil)

	if _, err := d.FetchOne(context.Background(), "AAPL", params, filepath.Join(dir, "apple")); err != nil {
		t.Fatalf("FetchOne() returned unexpected error: %v", err)
	}

	got, err := storage.CSV{}.Read(filepath.Join(dir, "apple.csv"))
	if err != nil {
		t.Fatalf("saved file not readable: %v", err)
	}
	if got.Len() != 5 {
		t.Errorf("saved rows = %d, want 5", got.Len())
	}
}

func TestFetchOne_Errors(t *testing.T) {
	tests := []struct {
		name     string
		ticker   string
		provider *testutil.MockProvider
		store    storage.Store
		dest     string
		wantKind fetcher.ErrorKind
		wantCall bool
	}{
		{
			name:     "provider failure",
			ticker:   "BAD",
			provider: testutil.NewMockProvider(nil, map[string]error{"BAD": errors.New("symbol may be delisted")}),
			wantKind: fetcher.KindProvider,
			wantCall: true,
		},
		{
			name:     "zero rows",
			ticker:   "NEW",
			provider: testutil.NewMockProvider(nil, nil),
			wantKind: fetcher.KindNoData,
			wantCall: true,
		},
		{
			name:   "nil dataset",
			ticker: "NIL",
			provider: &testutil.MockProvider{
				FetchFunc: func(context.Context, string, market.Params) (*market.Dataset, error) { return nil, nil },
			},
			wantKind: fetcher.KindNoData,
			wantCall: true,
		},
		{
			name:     "persist failure",
			ticker:   "AAPL",
			provider: testutil.NewMockProvider(map[string]int{"AAPL": 3}, nil),
			store:    failingStore{},
			dest:     "AAPL_1y",
			wantKind: fetcher.KindPersist,
			wantCall: true,
		},
		{
			name:     "empty ticker",
			ticker:   "  ",
			provider: testutil.NewMockProvider(nil, nil),
			wantKind: fetcher.KindInvalidInput,
			wantCall: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := reporter.NewRecorder()
			var opts []Option
			if tt.store != nil {
				opts = append(opts, WithStore(tt.store))
			}
			d := New(tt.provider, rec, opts...)

			ds, err := d.FetchOne(context.Background(), tt.ticker, params, tt.dest)
			if err == nil {
				t.Fatal("FetchOne() expected error, got nil")
			}
			if ds != nil {
				t.Errorf("FetchOne() dataset = %v, want nil on error", ds)
			}
			if !fetcher.IsKind(err, tt.wantKind) {
				t.Errorf("FetchOne() error kind = %s, want %s (%v)", fetcher.KindOf(err), tt.wantKind, err)
			}
			if called := len(tt.provider.Calls()) > 0; called != tt.wantCall {
				t.Errorf("provider called = %v, want %v", called, tt.wantCall)
			}

			assertTypes(t, rec.Types(), []reporter.EventType{reporter.EventStart, reporter.EventError})
		})
	}
}

func TestFetchOne_CallsProviderOnce(t *testing.T) {
	provider := testutil.NewMockProvider(nil, map[string]error{"BAD": errors.New("timeout")})
	d := New(provider, nil)

	_, _ = d.FetchOne(context.Background(), "BAD", params, "")

	if got := len(provider.Calls()); got != 1 {
		t.Errorf("provider called %d times, want 1", got)
	}
}

func TestFetchOne_PassesContext(t *testing.T) {
	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "batch-1")

	var got any
	provider := fetcher.ProviderFunc(func(ctx context.Context, ticker string, p market.Params) (*market.Dataset, error) {
		got = ctx.Value(key{})
		return testutil.NewDataset(ticker, 1), nil
	})

	if _, err := New(provider, nil).FetchOne(ctx, "AAPL", params, ""); err != nil {
		t.Fatalf("FetchOne() returned unexpected error: %v", err)
	}
	if got != "batch-1" {
		t.Errorf("provider saw context value %v, want batch-1", got)
	}
}

func TestFetchOne_Idempotent(t *testing.T) {
	d := New(testutil.NewMockProvider(map[string]int{"AAPL": 7}, nil), nil)
	ctx := context.Background()

	first, err := d.FetchOne(ctx, "AAPL", params, "")
	if err != nil {
		t.Fatalf("first FetchOne() returned unexpected error: %v", err)
	}
	second, err := d.FetchOne(ctx, "AAPL", params, "")
	if err != nil {
		t.Fatalf("second FetchOne() returned unexpected error: %v", err)
	}

	if first.Len() != second.Len() {
		t.Errorf("row counts differ: %d vs %d", first.Len(), second.Len())
	}
	assertStrings(t, "columns", second.Columns(), first.Columns())
}

func TestFetchOne_SortsRows(t *testing.T) {
	provider := &testutil.MockProvider{
		FetchFunc: func(ctx context.Context, ticker string, p market.Params) (*market.Dataset, error) {
			ds := testutil.NewDataset(ticker, 3)
			ds.Bars[0], ds.Bars[2] = ds.Bars[2], ds.Bars[0]
			return ds, nil
		},
	}

	ds, err := New(provider, nil).FetchOne(context.Background(), "AAPL", params, "")
	if err != nil {
		t.Fatalf("FetchOne() returned unexpected error: %v", err)
	}
	for i := 1; i < ds.Len(); i++ {
		if !ds.Bars[i-1].Time.Before(ds.Bars[i].Time) {
			t.Fatalf("rows not chronological at %d", i)
		}
	}
}

func TestFetchMany_PartialFailure(t *testing.T) {
	rec := reporter.NewRecorder()
	provider := testutil.NewMockProvider(
		map[string]int{"AAPL": 10},
		map[string]error{"BAD": errors.New("symbol not found")},
	)

	result, err := New(provider, rec).FetchMany(context.Background(), []string{"AAPL", "BAD"}, params, Options{})
	if err != nil {
		t.Fatalf("FetchMany() returned unexpected error: %v", err)
	}

	if result.Len() != 1 {
		t.Fatalf("FetchMany() successes = %d, want 1", result.Len())
	}
	ds, ok := result.Get("AAPL")
	if !ok || ds.Len() != 10 {
		t.Errorf("AAPL = (%v, ok=%v), want 10 rows", ds, ok)
	}
	if _, ok := result.Get("BAD"); ok {
		t.Error("BAD present in result, want absent")
	}
	if !fetcher.IsKind(result.Failures["BAD"], fetcher.KindProvider) {
		t.Errorf("Failures[BAD] = %v, want provider error", result.Failures["BAD"])
	}
	assertStrings(t, "Failed()", result.Failed(), []string{"BAD"})

	summaries := rec.Filter(reporter.EventSummary, "")
	if len(summaries) != 1 {
		t.Fatalf("got %d summary events, want 1", len(summaries))
	}
	want := reporter.Summary{Requested: 2, Succeeded: 1, Failed: 1}
	if summaries[0].Summary != want {
		t.Errorf("summary = %+v, want %+v", summaries[0].Summary, want)
	}
}

func TestFetchMany_Empty(t *testing.T) {
	rec := reporter.NewRecorder()
	provider := testutil.NewMockProvider(nil, nil)

	result, err := New(provider, rec).FetchMany(context.Background(), nil, params, Options{
		OutputDir:    t.TempDir(),
		SaveCombined: true,
	})
	if err != nil {
		t.Fatalf("FetchMany() returned unexpected error: %v", err)
	}
	if result == nil || result.Len() != 0 {
		t.Fatalf("FetchMany() = %v, want empty result", result)
	}

	events := rec.Events()
	if len(events) != 1 || events[0].Type != reporter.EventSummary {
		t.Fatalf("events = %+v, want only a summary", events)
	}
	if events[0].Summary != (reporter.Summary{}) {
		t.Errorf("summary = %+v, want all zero", events[0].Summary)
	}
}

func TestFetchMany_AllSucceed(t *testing.T) {
	tickers := []string{"^GSPC", "^VIX", "^IXIC", "^DJI"}
	rows := map[string]int{"^GSPC": 5, "^VIX": 6, "^IXIC": 7, "^DJI": 8}

	result, err := New(testutil.NewMockProvider(rows, nil), nil).FetchMany(context.Background(), tickers, params, Options{})
	if err != nil {
		t.Fatalf("FetchMany() returned unexpected error: %v", err)
	}
	if result.Len() != len(tickers) {
		t.Errorf("successes = %d, want %d", result.Len(), len(tickers))
	}
	assertStrings(t, "Order", result.Order, tickers)
	for tk, n := range rows {
		if ds, _ := result.Get(tk); ds.Len() != n {
			t.Errorf("%s rows = %d, want %d", tk, ds.Len(), n)
		}
	}
}

func TestFetchMany_NoDataEmitsOneError(t *testing.T) {
	rec := reporter.NewRecorder()
	provider := testutil.NewMockProvider(map[string]int{"AAPL": 3}, nil)

	result, _ := New(provider, rec).FetchMany(context.Background(), []string{"AAPL", "EMPTY"}, params, Options{})

	if _, ok := result.Get("EMPTY"); ok {
		t.Error("EMPTY present in result, want absent")
	}
	if got := rec.Count(reporter.EventError, "EMPTY"); got != 1 {
		t.Errorf("error events for EMPTY = %d, want 1", got)
	}
	if got := rec.Count(reporter.EventComplete, "EMPTY"); got != 0 {
		t.Errorf("complete events for EMPTY = %d, want 0", got)
	}
}

func TestFetchMany_EventOrder(t *testing.T) {
	rec := reporter.NewRecorder()
	provider := testutil.NewMockProvider(map[string]int{"A": 1, "C": 1}, map[string]error{"B": errors.New("boom")})

	_, _ = New(provider, rec).FetchMany(context.Background(), []string{"A", "B", "C"}, params, Options{})

	want := []reporter.EventType{
		reporter.EventStart, reporter.EventComplete, reporter.EventStats,
		reporter.EventStart, reporter.EventError,
		reporter.EventStart, reporter.EventComplete, reporter.EventStats,
		reporter.EventSummary,
	}
	assertTypes(t, rec.Types(), want)
	assertStrings(t, "provider calls", provider.Calls(), []string{"A", "B", "C"})

	if got := rec.Count(reporter.EventSeparator, ""); got != 3 {
		t.Errorf("separators = %d, want 3", got)
	}
}

func TestFetchMany_Duplicates(t *testing.T) {
	rec := reporter.NewRecorder()
	provider := testutil.NewMockProvider(map[string]int{"AAPL": 2, "MSFT": 2}, nil)

	result, _ := New(provider, rec).FetchMany(context.Background(), []string{"AAPL", "MSFT", "AAPL"}, params, Options{})

	assertStrings(t, "provider calls", provider.Calls(), []string{"AAPL", "MSFT"})
	assertStrings(t, "Order", result.Order, []string{"AAPL", "MSFT"})
	if got := result.Summary(); got.Requested != 2 {
		t.Errorf("requested = %d, want 2", got.Requested)
	}

	var warned bool
	for _, e := range rec.Filter(reporter.EventLog, "") {
		if e.Level == reporter.LevelWarning {
			warned = true
		}
	}
	if !warned {
		t.Error("no warning logged for duplicate ticker")
	}
}

func TestFetchMany_SaveIndividual(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "raw")
	provider := testutil.NewMockProvider(map[string]int{"AAPL": 4}, map[string]error{"BAD": errors.New("boom")})

	result, err := New(provider, nil).FetchMany(context.Background(), []string{"AAPL", "BAD"}, params, Options{
		OutputDir:      dir,
		SaveIndividual: true,
	})
	if err != nil {
		t.Fatalf("FetchMany() returned unexpected error: %v", err)
	}

	path := result.Paths["AAPL"]
	if filepath.Base(path) != "AAPL_1y.csv" {
		t.Errorf("AAPL path = %q, want AAPL_1y.csv", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("AAPL file not written: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "BAD_1y.csv")); !os.IsNotExist(err) {
		t.Errorf("BAD file exists, want none (stat err = %v)", err)
	}
}

func TestFetchMany_SQLiteStore(t *testing.T) {
	dir := t.TempDir()
	provider := testutil.NewMockProvider(map[string]int{"AAPL": 4}, nil)

	result, err := New(provider, nil, WithStore(storage.SQLite{})).FetchMany(context.Background(), []string{"AAPL"}, params, Options{
		OutputDir:      dir,
		SaveIndividual: true,
	})
	if err != nil {
		t.Fatalf("FetchMany() returned unexpected error: %v", err)
	}

	got, err := storage.SQLite{}.Read(result.Paths["AAPL"])
	if err != nil {
		t.Fatalf("Read() returned unexpected error: %v", err)
	}
	if got.Len() != 4 {
		t.Errorf("rows = %d, want 4", got.Len())
	}
}

func TestFetchMany_PersistFailureIsDistinct(t *testing.T) {
	rec := reporter.NewRecorder()
	provider := testutil.NewMockProvider(map[string]int{"AAPL": 4}, nil)

	result, err := New(provider, rec, WithStore(failingStore{})).FetchMany(context.Background(), []string{"AAPL"}, params, Options{
		OutputDir:      t.TempDir(),
		SaveIndividual: true,
	})
	if err != nil {
		t.Fatalf("FetchMany() returned unexpected error: %v", err)
	}
	if result.Len() != 0 {
		t.Errorf("successes = %d, want 0", result.Len())
	}

	errs := rec.Filter(reporter.EventError, "AAPL")
	if len(errs) != 1 {
		t.Fatalf("error events = %d, want 1", len(errs))
	}
	if !fetcher.IsKind(errs[0].Err, fetcher.KindPersist) {
		t.Errorf("error kind = %s, want %s", fetcher.KindOf(errs[0].Err), fetcher.KindPersist)
	}
}

func TestFetchMany_Combined(t *testing.T) {
	dir := t.TempDir()
	rows := map[string]int{"^GSPC": 5, "^VIX": 9}
	provider := testutil.NewMockProvider(rows, map[string]error{"BAD": errors.New("boom")})

	result, err := New(provider, nil).FetchMany(context.Background(), []string{"^VIX", "BAD", "^GSPC"}, params, Options{
		OutputDir:    dir,
		SaveCombined: true,
	})
	if err != nil {
		t.Fatalf("FetchMany() returned unexpected error: %v", err)
	}

	want := filepath.Join(dir, "combined_stocks_1y.xlsx")
	if result.CombinedPath != want {
		t.Errorf("CombinedPath = %q, want %q", result.CombinedPath, want)
	}

	sheets, err := storage.ReadWorkbook(result.CombinedPath)
	if err != nil {
		t.Fatalf("ReadWorkbook() returned unexpected error: %v", err)
	}
	if len(sheets) != 2 {
		t.Fatalf("sheets = %d, want 2", len(sheets))
	}
	for i, name := range []string{"^VIX", "^GSPC"} {
		if sheets[i].Name != name {
			t.Errorf("sheet %d = %q, want %q", i, sheets[i].Name, name)
		}
		if sheets[i].Dataset.Len() != rows[name] {
			t.Errorf("sheet %s rows = %d, want %d", name, sheets[i].Dataset.Len(), rows[name])
		}
	}
}

func TestFetchMany_CombinedCustomName(t *testing.T) {
	dir := t.TempDir()
	provider := testutil.NewMockProvider(map[string]int{"AAPL": 2}, nil)

	result, err := New(provider, nil).FetchMany(context.Background(), []string{"AAPL"}, params, Options{
		OutputDir:        dir,
		SaveCombined:     true,
		CombinedFilename: "volatility",
	})
	if err != nil {
		t.Fatalf("FetchMany() returned unexpected error: %v", err)
	}
	if got := filepath.Base(result.CombinedPath); got != "volatility.xlsx" {
		t.Errorf("combined file = %q, want volatility.xlsx", got)
	}
}

func TestFetchMany_NoCombinedWithoutSuccesses(t *testing.T) {
	dir := t.TempDir()
	provider := testutil.NewMockProvider(nil, map[string]error{"BAD": errors.New("boom")})

	result, err := New(provider, nil).FetchMany(context.Background(), []string{"BAD", "EMPTY"}, params, Options{
		OutputDir:    dir,
		SaveCombined: true,
	})
	if err != nil {
		t.Fatalf("FetchMany() returned unexpected error: %v", err)
	}
	if result.CombinedPath != "" {
		t.Errorf("CombinedPath = %q, want empty", result.CombinedPath)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() returned unexpected error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("output dir has %d entries, want none", len(entries))
	}
}

func TestFetchMany_CombinedWriteFailure(t *testing.T) {
	dir := t.TempDir()
	// A directory squatting on the workbook name makes the save fail.
	if err := os.Mkdir(filepath.Join(dir, "combined_stocks_1y.xlsx"), 0o755); err != nil {
		t.Fatal(err)
	}
	rec := reporter.NewRecorder()
	provider := testutil.NewMockProvider(map[string]int{"AAPL": 2}, nil)

	result, err := New(provider, rec).FetchMany(context.Background(), []string{"AAPL"}, params, Options{
		OutputDir:    dir,
		SaveCombined: true,
	})
	if err == nil {
		t.Fatal("FetchMany() expected error for combined write, got nil")
	}
	if !fetcher.IsKind(err, fetcher.KindPersist) {
		t.Errorf("error kind = %s, want %s", fetcher.KindOf(err), fetcher.KindPersist)
	}
	if result == nil || result.Len() != 1 {
		t.Fatalf("result = %v, want the AAPL success despite the error", result)
	}
	if got := rec.Count(reporter.EventSummary, ""); got != 1 {
		t.Errorf("summary events = %d, want 1", got)
	}
}

func TestFetchMany_CombinedCaseCollision(t *testing.T) {
	dir := t.TempDir()
	rec := reporter.NewRecorder()
	provider := testutil.NewMockProvider(map[string]int{"AAPL": 10, "aapl": 3}, nil)

	result, err := New(provider, rec).FetchMany(context.Background(), []string{"AAPL", "aapl"}, params, Options{
		OutputDir:    dir,
		SaveCombined: true,
	})
	if !errors.Is(err, storage.ErrDuplicateSheet) {
		t.Fatalf("FetchMany() error = %v, want ErrDuplicateSheet", err)
	}
	if !fetcher.IsKind(err, fetcher.KindPersist) {
		t.Errorf("error kind = %s, want %s", fetcher.KindOf(err), fetcher.KindPersist)
	}
	if result.Len() != 2 {
		t.Errorf("successes = %d, want 2", result.Len())
	}
	if result.CombinedPath != "" {
		t.Errorf("CombinedPath = %q, want empty", result.CombinedPath)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "combined_stocks_1y.xlsx")); !os.IsNotExist(statErr) {
		t.Error("workbook written despite colliding sheet names")
	}

	var reported bool
	for _, e := range rec.Filter(reporter.EventLog, "") {
		if e.Level == reporter.LevelError {
			reported = true
		}
	}
	if !reported {
		t.Error("no error logged for the failed combined workbook")
	}
}

func TestFetchMany_EmptySkipsOutputDir(t *testing.T) {
	// A regular file where the output directory should be makes EnsureDir fail.
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	rec := reporter.NewRecorder()

	_, err := New(testutil.NewMockProvider(nil, nil), rec).FetchMany(context.Background(), nil, params, Options{
		OutputDir:      filepath.Join(blocker, "raw"),
		SaveIndividual: true,
		SaveCombined:   true,
	})
	if err != nil {
		t.Fatalf("FetchMany() returned unexpected error: %v", err)
	}
	assertTypes(t, rec.Types(), []reporter.EventType{reporter.EventSummary})
}

func TestFetchMany_TickerWithSeparator(t *testing.T) {
	dir := t.TempDir()
	provider := testutil.NewMockProvider(map[string]int{"BRK/B": 2}, nil)

	result, err := New(provider, nil).FetchMany(context.Background(), []string{"BRK/B"}, params, Options{
		OutputDir:      dir,
		SaveIndividual: true,
	})
	if err != nil {
		t.Fatalf("FetchMany() returned unexpected error: %v", err)
	}

	want := filepath.Join(dir, "BRK_B_1y.csv")
	if got := result.Paths["BRK/B"]; got != want {
		t.Errorf("path = %q, want %q", got, want)
	}
	if _, err := os.Stat(want); err != nil {
		t.Errorf("file not written inside output dir: %v", err)
	}
}

func TestDescribe(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "AAPL_1y.csv")
	if err := (storage.CSV{}).Write(testutil.NewDataset("AAPL", 500), path); err != nil {
		t.Fatal(err)
	}

	info, err := Describe(path)
	if err != nil {
		t.Fatalf("Describe() returned unexpected error: %v", err)
	}
	if info.Rows != 500 {
		t.Errorf("Rows = %d, want 500", info.Rows)
	}
	if info.SizeMB <= 0 {
		t.Errorf("SizeMB = %f, want > 0", info.SizeMB)
	}

	_, err = Describe(filepath.Join(dir, "missing.csv"))
	if !fetcher.IsKind(err, fetcher.KindNotFound) {
		t.Errorf("Describe(missing) error = %v, want not_found", err)
	}
}

func TestDownloadStockData(t *testing.T) {
	dir := t.TempDir()
	provider := testutil.NewMockProvider(map[string]int{"^VIX": 3}, nil)

	ds, err := DownloadStockData(context.Background(), provider, nil, "^VIX", params, "", dir)
	if err != nil {
		t.Fatalf("DownloadStockData() returned unexpected error: %v", err)
	}
	if ds.Len() != 3 {
		t.Errorf("rows = %d, want 3", ds.Len())
	}
	if _, err := os.Stat(filepath.Join(dir, "^VIX_1y.csv")); err != nil {
		t.Errorf("file not written: %v", err)
	}
}

func TestDownloadMultipleStocks(t *testing.T) {
	dir := t.TempDir()
	provider := testutil.NewMockProvider(map[string]int{"A": 1, "B": 2}, nil)

	result, err := DownloadMultipleStocks(context.Background(), provider, nil, []string{"A", "B"}, params, dir, true)
	if err != nil {
		t.Fatalf("DownloadMultipleStocks() returned unexpected error: %v", err)
	}
	if len(result.Paths) != 2 {
		t.Errorf("individual files = %d, want 2", len(result.Paths))
	}
	if result.CombinedPath == "" {
		t.Error("CombinedPath empty, want a workbook")
	}
}

func assertTypes(t *testing.T, got, want []reporter.EventType) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("event types = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func assertStrings(t *testing.T, name string, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%s = %v, want %v", name, got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("%s[%d] = %q, want %q", name, i, got[i], want[i])
		}
	}
}
