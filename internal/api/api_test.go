package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/bep-cli/internal/exporter"
	"github.com/sells-group/bep-cli/internal/importer"
	"github.com/sells-group/bep-cli/internal/intake"
	"github.com/sells-group/bep-cli/internal/model"
	"github.com/sells-group/bep-cli/internal/store"
)

var testNow = func() time.Time { return time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC) }

func newTestServer(t *testing.T, opts Options) (*httptest.Server, store.Store) {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	require.NoError(t, st.Migrate(context.Background()))
	t.Cleanup(func() { st.Close() }) //nolint:errcheck

	if opts.Now == nil {
		opts.Now = testNow
	}
	srv := httptest.NewServer(New(intake.New(importer.Options{}), st, opts).Router())
	t.Cleanup(srv.Close)
	return srv, st
}

func exportBytes(t *testing.T, in model.CalculationInputs) []byte {
	t.Helper()
	snap, err := exporter.NewSnapshot(in)
	require.NoError(t, err)
	wb, err := exporter.Build(snap, exporter.Options{Now: testNow})
	require.NoError(t, err)
	defer wb.Close() //nolint:errcheck
	data, err := wb.Bytes()
	require.NoError(t, err)
	return data
}

func upload(t *testing.T, url, filename string, data []byte) *http.Response {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := http.Post(url, mw.FormDataContentType(), &body)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() }) //nolint:errcheck
	return resp
}

func postJSON(t *testing.T, url string, v any) *http.Response {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(b))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() }) //nolint:errcheck
	return resp
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

var sampleInputs = model.CalculationInputs{Price: 50000, UnitCost: 20000, FixedCost: 3000000}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t, Options{})

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	decode(t, resp, &body)
	assert.Equal(t, "ok", body["status"])
}

func TestImport_Export(t *testing.T) {
	srv, _ := newTestServer(t, Options{})

	resp := upload(t, srv.URL+"/api/v1/import", "BEP_Export.xlsx", exportBytes(t, sampleInputs))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		OK     bool                    `json:"ok"`
		Format string                  `json:"format"`
		Single *model.ValidationResult `json:"single"`
	}
	decode(t, resp, &body)
	assert.True(t, body.OK)
	assert.Equal(t, "export", body.Format)
	require.NotNil(t, body.Single)
	require.NotNil(t, body.Single.Value)
	assert.Equal(t, sampleInputs, *body.Single.Value)
}

func TestImport_SaveProject(t *testing.T) {
	srv, st := newTestServer(t, Options{})

	resp := upload(t, srv.URL+"/api/v1/import?save=soap", "BEP_Export.xlsx", exportBytes(t, sampleInputs))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Project *model.Project `json:"project"`
	}
	decode(t, resp, &body)
	require.NotNil(t, body.Project)

	saved, err := st.GetProject(context.Background(), body.Project.ID)
	require.NoError(t, err)
	assert.Equal(t, "soap", saved.Name)

	get, err := http.Get(srv.URL + "/api/v1/projects/" + saved.ID)
	require.NoError(t, err)
	defer get.Body.Close() //nolint:errcheck
	assert.Equal(t, http.StatusOK, get.StatusCode)

	list, err := http.Get(srv.URL + "/api/v1/projects?name=soap")
	require.NoError(t, err)
	defer list.Body.Close() //nolint:errcheck
	var projects []model.Project
	decode(t, list, &projects)
	assert.Len(t, projects, 1)
}

func TestImport_Unrecognized(t *testing.T) {
	srv, _ := newTestServer(t, Options{})

	resp := upload(t, srv.URL+"/api/v1/import", "notes.txt", []byte("not a workbook"))
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var p Problem
	decode(t, resp, &p)
	assert.Equal(t, http.StatusUnprocessableEntity, p.Status)
	assert.Contains(t, p.Detail, "unrecognized workbook")
}

func TestImport_TooLarge(t *testing.T) {
	srv, _ := newTestServer(t, Options{MaxUploadBytes: 1024})

	resp := upload(t, srv.URL+"/api/v1/import", "big.xlsx", bytes.Repeat([]byte("x"), 4096))
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}

func TestImport_MissingFile(t *testing.T) {
	srv, _ := newTestServer(t, Options{})

	resp, err := http.Post(srv.URL+"/api/v1/import", "text/plain", strings.NewReader("hello"))
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestExport(t *testing.T) {
	srv, _ := newTestServer(t, Options{})

	resp := postJSON(t, srv.URL+"/api/v1/export", map[string]any{
		"price": 50000, "unitCost": "20,000", "fixedCost": 3000000,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, xlsxContentType, resp.Header.Get("Content-Type"))
	assert.Equal(t, `attachment; filename=BEP_Export_2026-05-01.xlsx`, resp.Header.Get("Content-Disposition"))

	var buf bytes.Buffer
	_, err := buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, importer.FormatExport, importer.Detect(buf.Bytes(), importer.Options{}))
}

func TestExport_Invalid(t *testing.T) {
	srv, _ := newTestServer(t, Options{})

	resp := postJSON(t, srv.URL+"/api/v1/export", map[string]any{
		"price": 100, "unitCost": 200, "fixedCost": 10,
	})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var p Problem
	decode(t, resp, &p)
	require.Len(t, p.Issues, 1)
	assert.Equal(t, model.IssueBusinessLogic, p.Issues[0].Code)
}

func TestSensitivity_Chart(t *testing.T) {
	srv, _ := newTestServer(t, Options{})

	resp := postJSON(t, srv.URL+"/api/v1/sensitivity", map[string]any{
		"price": 50000, "unitCost": 20000, "fixedCost": 3000000, "axis": "unitCost",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body sensitivityResponse
	decode(t, resp, &body)
	assert.Equal(t, model.AxisUnitCost, body.Axis)
	assert.Len(t, body.Points, 11)
}

func TestSensitivity_Table(t *testing.T) {
	srv, _ := newTestServer(t, Options{})

	resp := postJSON(t, srv.URL+"/api/v1/sensitivity", map[string]any{
		"price": 50000, "unitCost": 20000, "fixedCost": 3000000, "table": true,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body sensitivityResponse
	decode(t, resp, &body)
	assert.Len(t, body.Rows, 20)
}

func TestSensitivity_BadAxis(t *testing.T) {
	srv, _ := newTestServer(t, Options{})

	resp := postJSON(t, srv.URL+"/api/v1/sensitivity", map[string]any{
		"price": 50000, "unitCost": 20000, "fixedCost": 3000000, "axis": "volume",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestReport(t *testing.T) {
	srv, _ := newTestServer(t, Options{})

	resp := postJSON(t, srv.URL+"/api/v1/report?source=costs.xlsx", []model.ValidationIssue{
		{Code: model.IssueRangeError, Field: "price", Message: "price must be greater than 0"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `attachment; filename=validation-errors-costs.csv`, resp.Header.Get("Content-Disposition"))

	var buf bytes.Buffer
	_, err := buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\xEF\xBB\xBF")))
	assert.Contains(t, buf.String(), "range-error,price,price must be greater than 0")
}

func TestGetProject_NotFound(t *testing.T) {
	srv, _ := newTestServer(t, Options{})

	resp, err := http.Get(srv.URL + "/api/v1/projects/missing")
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestProjects_NoStore(t *testing.T) {
	srv := httptest.NewServer(New(intake.New(importer.Options{}), nil, Options{}).Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/v1/projects")
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestRateLimit(t *testing.T) {
	srv, _ := newTestServer(t, Options{RatePerSec: 0.001, Burst: 1})

	first := postJSON(t, srv.URL+"/api/v1/sensitivity", map[string]any{"price": 10, "unitCost": 5, "fixedCost": 100})
	assert.Equal(t, http.StatusOK, first.StatusCode)

	second := postJSON(t, srv.URL+"/api/v1/sensitivity", map[string]any{"price": 10, "unitCost": 5, "fixedCost": 100})
	assert.Equal(t, http.StatusTooManyRequests, second.StatusCode)
}

func TestNotFoundRoute(t *testing.T) {
	srv, _ := newTestServer(t, Options{})

	resp, err := http.Get(srv.URL + "/nope")
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
