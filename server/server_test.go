package server

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/Dav3whit3/ih-datamadpt0420-project-m2/config"
	"github.com/Dav3whit3/ih-datamadpt0420-project-m2/dataset"
	"github.com/Dav3whit3/ih-datamadpt0420-project-m2/engine"
	"github.com/Dav3whit3/ih-datamadpt0420-project-m2/schema"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const gemsCSV = `price,carat,color
100,0.5,D
500,0.7,E
900,1,D
`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	ds, err := dataset.ParseCSV(strings.NewReader(gemsCSV), dataset.Options{Name: "gems"})
	require.NoError(t, err)

	s, err := New(config.DefaultConfig().Server, ds, zap.NewNop())
	require.NoError(t, err)
	return s
}

func do(t *testing.T, s *Server, method, target string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func countOf(series engine.ChartSeries) float64 {
	var total float64
	for _, p := range series.Data {
		total += p.Value
	}
	return total
}

func TestNewRequiresDataset(t *testing.T) {
	_, err := New(config.Server{}, nil, nil)
	assert.ErrorIs(t, err, engine.ErrNoData)
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[map[string]any](t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "gems", body["dataset"])
	assert.Equal(t, 3.0, body["records"])
}

func TestControls(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/api/controls", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	c := decode[schema.Controls](t, rec)
	assert.Equal(t, 100.0, c.RangeMin)
	assert.Equal(t, 900.0, c.RangeMax)
	assert.Equal(t, []string{"all", "D", "E"}, c.CategoryOptions)
	assert.Equal(t, []string{"price", "carat"}, c.Columns)
	assert.Equal(t, []string{"price"}, c.DefaultColumns)
}

// ============================================================================
// CHART API
// ============================================================================

func TestChartFiltersByRangeAndColor(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet,
		"/api/chart?priceMin=100&priceMax=900&color=D&columns=price&kind=histogram", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	chart := decode[engine.ChartConfig](t, rec)
	require.Len(t, chart.Series, 1)
	assert.Equal(t, "price", chart.Series[0].Name)
	assert.Equal(t, 1.0, countOf(chart.Series[0]), "only the 100 D stone is inside [100, 900)")
}

func TestChartOneBoundTakesSliderLimit(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/api/chart?priceMin=500&columns=price", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	chart := decode[engine.ChartConfig](t, rec)
	require.Len(t, chart.Series, 1)
	assert.Equal(t, 1.0, countOf(chart.Series[0]), "the upper bound stays exclusive")
}

func TestChartWithoutRangeMatchesAll(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/api/chart?columns=price,carat", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	chart := decode[engine.ChartConfig](t, rec)
	require.Len(t, chart.Series, 2)
	assert.Equal(t, 3.0, countOf(chart.Series[0]))
	assert.Equal(t, 3.0, countOf(chart.Series[1]))
}

func TestChartRejectsMalformedBound(t *testing.T) {
	s := newTestServer(t)
	for _, target := range []string{
		"/api/chart?priceMin=abc",
		"/api/chart?priceMax=NaN",
		"/chart.png?priceMin=Inf",
	} {
		rec := do(t, s, http.MethodGet, target, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.Contains(t, decode[errorBody](t, rec).Error, "price", target)
	}
}

func TestChartUnknownKindIsEmpty(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/api/chart?kind=pie&columns=price", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[engine.ChartConfig](t, rec).Series)
}

func TestChartUnknownColumnsAreDropped(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/api/chart?columns=weight", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[engine.ChartConfig](t, rec).Series)
}

func TestChartPOST(t *testing.T) {
	body := `{"priceRange":[0,1000],"colorConstraint":"D","selectedColumns":["carat"],"chartKind":"aggregate-line"}`
	rec := do(t, newTestServer(t), http.MethodPost, "/api/chart", strings.NewReader(body))
	require.Equal(t, http.StatusOK, rec.Code)

	chart := decode[engine.ChartConfig](t, rec)
	assert.Equal(t, engine.KindAggregateLine, chart.ChartType)
	require.Len(t, chart.Series, 1)
	assert.Len(t, chart.Series[0].Data, 2, "one point per D carat")
}

func TestChartPOSTBadBody(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodPost, "/api/chart", strings.NewReader("{"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ============================================================================
// OVERVIEW + DASHBOARD
// ============================================================================

func TestOverviewDescribe(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/api/overview?tableMode=describe", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	ov := decode[engine.Overview](t, rec)
	assert.Equal(t, engine.TableDescribe, ov.Mode)
	require.NotNil(t, ov.Table)
	assert.Equal(t, "Stats", ov.Table.Columns[0].Label)
	assert.Nil(t, ov.Chart)
}

func TestOverviewIgnoresFilter(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/api/overview?tableMode=full&color=E", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	ov := decode[engine.Overview](t, rec)
	require.NotNil(t, ov.Table)
	assert.Len(t, ov.Table.Rows, 3)
}

func TestDashboard(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/api/dashboard?color=D&tableMode=uniques&columns=color", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	res := decode[engine.Result](t, rec)
	assert.Equal(t, engine.KindHistogram, res.State.ChartKind)
	assert.Equal(t, 2, res.Summary.Matched)
	assert.Equal(t, 3, res.Summary.Total)
	require.NotNil(t, res.Overview.Chart)
	require.Len(t, res.Overview.Chart.Series, 1)
	assert.Equal(t, 3.0, countOf(res.Overview.Chart.Series[0]))
}

func TestDashboardWithNonFiniteCells(t *testing.T) {
	csv := gemsCSV + "inf,0.9,E\n"
	ds, err := dataset.ParseCSV(strings.NewReader(csv), dataset.Options{Name: "gems"})
	require.NoError(t, err)
	s, err := New(config.DefaultConfig().Server, ds, zap.NewNop())
	require.NoError(t, err)

	for _, target := range []string{"/api/chart?columns=price", "/api/dashboard?columns=price&tableMode=uniques"} {
		rec := do(t, s, http.MethodGet, target, nil)
		assert.Equal(t, http.StatusOK, rec.Code, "%s: %s", target, rec.Body.String())
	}

	res := decode[engine.Result](t, do(t, s, http.MethodGet, "/api/dashboard?columns=price", nil))
	assert.Equal(t, 4, res.Summary.Matched)
	assert.Equal(t, 500.0, res.Summary.Mean)
}

// ============================================================================
// IMAGES + EXPORTS
// ============================================================================

func TestChartPNG(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/chart.png?columns=price", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))

	cfg, err := png.DecodeConfig(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 900, cfg.Width)
	assert.Equal(t, 420, cfg.Height)
}

func TestOverviewPNG(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/overview.png?tableMode=head", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodGet, "/overview.png?tableMode=uniques&columns=color", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
}

func TestExportTableCSV(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/export/table.csv?tableMode=head", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="table.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "price,carat,color\n100,0.5,D\n500,0.7,E\n900,1,D\n", rec.Body.String())
}

func TestExportChartCSV(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/export/chart.csv?kind=pie", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/csv"))
}

func TestExportTableXLSX(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/export/table.xlsx?tableMode=full", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetList()[0])
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"price", "carat", "color"}, rows[0])
}

// ============================================================================
// PAGE + MIDDLEWARE
// ============================================================================

func TestIndexPage(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	page := rec.Body.String()
	assert.Contains(t, page, `name="priceMin"`)
	assert.Contains(t, page, `value="E"`)
	assert.Contains(t, page, `value="aggregate-line"`)
	assert.Contains(t, page, `value="uniques"`)
	assert.Contains(t, page, "3 records")
}

func TestUnknownRouteIs404(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRequestID(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/healthz", nil)
	assert.Len(t, rec.Header().Get(RequestIDHeader), 36)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestRecovererReturnsJSON(t *testing.T) {
	h := recoverer(zap.NewNop(), http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal error", decode[errorBody](t, rec).Error)
}

// ============================================================================
// LIFECYCLE
// ============================================================================

func TestServeShutsDownOnCancel(t *testing.T) {
	s := newTestServer(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
	defer client.CloseIdleConnections()

	resp, err := client.Get("http://" + ln.Addr().String() + "/healthz")
	require.NoError(t, err)
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestMetrics(t *testing.T) {
	s := newTestServer(t)
	do(t, s, http.MethodGet, "/api/dashboard?color=D", nil)
	do(t, s, http.MethodGet, "/api/chart?priceMin=x", nil)

	rec := do(t, s, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `diamonds_http_requests_total{code="200",route="GET /api/dashboard"} 1`)
	assert.Contains(t, body, `diamonds_http_requests_total{code="400",route="GET /api/chart"} 1`)
	assert.Contains(t, body, "diamonds_filter_matched_records_count 1")
	assert.Contains(t, body, "diamonds_dataset_records 3")
}
