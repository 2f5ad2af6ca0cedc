package handlers

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"planner3d/internal/converter/geometry"
	"planner3d/internal/converter/metrics"
	"planner3d/internal/converter/repository"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const sampleLayout = `{
	"name": "Studio",
	"total_width_m": 4,
	"total_height_m": 3,
	"rooms": [
		{"id": "main", "type": "living", "note": "keep me", "x_m": 0, "y_m": 0, "width_m": 4, "height_m": 3,
		 "doors": [{"wall": "north", "position": 0.5, "width_m": 0.9}]},
		{"id": "ghost", "type": "storage", "x_m": 0, "y_m": 0}
	]
}`

const sampleSVG = `<svg xmlns="http://www.w3.org/2000/svg">
  <rect id="Room_bedroom_1" x="0" y="0" width="200" height="150"/>
  <rect id="Door_1" x="80" y="-5" width="45" height="10"/>
  <rect id="Window_lost" x="900" y="900" width="40" height="10"/>
</svg>`

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	db, err := repository.OpenSQLite(filepath.Join(t.TempDir(), "layouts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := repository.New(db)
	require.NoError(t, repo.Init(context.Background()))

	h := New(Deps{
		Engine:         geometry.NewEngine(geometry.Default()),
		Repo:           repo,
		Metrics:        metrics.New(),
		Log:            zap.NewNop(),
		PixelsPerMeter: 50,
		Workers:        2,
	})
	app := fiber.New()
	h.Register(app)
	return app
}

func do(t *testing.T, app *fiber.App, method, target, contentType string, body io.Reader) (*http.Response, []byte) {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, data
}

func multipartSVG(t *testing.T, svg string) (string, io.Reader) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "plan.svg")
	require.NoError(t, err)
	_, err = part.Write([]byte(svg))
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return writer.FormDataContentType(), body
}

func TestConvert(t *testing.T) {
	app := newTestApp(t)

	resp, data := do(t, app, "POST", "/convert?wallHeight=2.5", "application/json", strings.NewReader(sampleLayout))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, "Studio", gjson.GetBytes(data, "name").String())
	assert.Equal(t, "keep me", gjson.GetBytes(data, "rooms.0.note").String())
	assert.Equal(t, 2.5, gjson.GetBytes(data, "rooms.0.wallHeight").Float())
	assert.Equal(t, 2.7, gjson.GetBytes(data, "rooms.0.ceilingHeight").Float())
	assert.Equal(t, int64(6), gjson.GetBytes(data, "rooms.0.geometry.walls.#").Int())
	assert.Equal(t, int64(0), gjson.GetBytes(data, "rooms.1.geometry.walls.#").Int())
	assert.Equal(t, "[1,0.1,1]", gjson.GetBytes(data, "rooms.1.geometry.floor.size").Raw)
}

func TestConvert_BadRequests(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		name   string
		target string
		body   string
		errMsg string
	}{
		{"empty body", "/convert", "", "body required"},
		{"invalid json", "/convert", "{rooms", "invalid JSON payload"},
		{"bad wall height", "/convert?wallHeight=-1", sampleLayout, "wallHeight must be a positive number"},
		{"bad ceiling height", "/convert?ceilingHeight=abc", sampleLayout, "ceilingHeight must be a positive number"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, data := do(t, app, "POST", tt.target, "application/json", strings.NewReader(tt.body))
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, tt.errMsg, gjson.GetBytes(data, "error").String())
		})
	}
}

func TestImport(t *testing.T) {
	app := newTestApp(t)

	contentType, body := multipartSVG(t, sampleSVG)
	resp, data := do(t, app, "POST", "/import", contentType, body)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, "Window_lost", resp.Header.Get("X-Skipped-Elements"))
	assert.Equal(t, "bedroom", gjson.GetBytes(data, "rooms.0.type").String())
	assert.Equal(t, 4.0, gjson.GetBytes(data, "rooms.0.width_m").Float())
	assert.Equal(t, "north", gjson.GetBytes(data, "rooms.0.doors.0.wall").String())
	assert.False(t, gjson.GetBytes(data, "rooms.0.geometry").Exists())
}

func TestImport_Convert(t *testing.T) {
	app := newTestApp(t)

	contentType, body := multipartSVG(t, sampleSVG)
	resp, data := do(t, app, "POST", "/import?convert=true&scale=100", contentType, body)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, 2.0, gjson.GetBytes(data, "rooms.0.width_m").Float())
	assert.True(t, gjson.GetBytes(data, "rooms.0.geometry").Exists())
	assert.Equal(t, int64(1), gjson.GetBytes(data, "rooms.0.doors3D.#").Int())
}

func TestImport_Errors(t *testing.T) {
	app := newTestApp(t)

	resp, _ := do(t, app, "POST", "/import", "application/json", strings.NewReader("{}"))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	contentType, body := multipartSVG(t, `<svg><rect id="Door_1" width="1" height="1"/></svg>`)
	resp, data := do(t, app, "POST", "/import", contentType, body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "svg contains no rooms", gjson.GetBytes(data, "error").String())

	resp, _ = do(t, app, "GET", "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRender(t *testing.T) {
	app := newTestApp(t)

	resp, data := do(t, app, "POST", "/render", "application/json", strings.NewReader(sampleLayout))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"))
	assert.Contains(t, string(data), `id="main_north_0"`)

	resp, _ = do(t, app, "POST", "/render", "application/json", strings.NewReader(`{"rooms": []}`))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMaterials(t *testing.T) {
	app := newTestApp(t)

	resp, data := do(t, app, "GET", "/materials", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "#d9c4a3", gjson.GetBytes(data, "floorColors.living").String())
	assert.Equal(t, 0.35, gjson.GetBytes(data, "walls.exterior.opacity").Float())
	assert.Equal(t, 2.0, gjson.GetBytes(data, "furniture.sofa.width").Float())
}

func TestLayoutsLifecycle(t *testing.T) {
	app := newTestApp(t)

	resp, data := do(t, app, "POST", "/layouts", "application/json", strings.NewReader(sampleLayout))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id := gjson.GetBytes(data, "id").String()
	require.NotEmpty(t, id)
	assert.Equal(t, "Studio", gjson.GetBytes(data, "name").String())
	assert.Equal(t, int64(2), gjson.GetBytes(data, "rooms").Int())

	resp, data = do(t, app, "GET", "/layouts", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(1), gjson.GetBytes(data, "#").Int())
	assert.False(t, gjson.GetBytes(data, "0.data").Exists())

	resp, data = do(t, app, "GET", "/layouts/"+id+"/3d?ceilingHeight=3", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 3.0, gjson.GetBytes(data, "rooms.0.ceilingHeight").Float())
	assert.Equal(t, "keep me", gjson.GetBytes(data, "rooms.0.note").String())

	resp, data = do(t, app, "PUT", "/layouts/"+id, "application/json", strings.NewReader(`{"name": "Renamed", "rooms": []}`))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Renamed", gjson.GetBytes(data, "name").String())

	resp, data = do(t, app, "GET", "/layouts/"+id, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(0), gjson.GetBytes(data, "data.rooms.#").Int())

	resp, _ = do(t, app, "DELETE", "/layouts/"+id, "", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, data = do(t, app, "GET", "/layouts/"+id, "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "layout not found", gjson.GetBytes(data, "error").String())
}

func TestLayouts_NotFound(t *testing.T) {
	app := newTestApp(t)

	for _, req := range []struct{ method, target, body string }{
		{"GET", "/layouts/nope/3d", ""},
		{"PUT", "/layouts/nope", `{"rooms": []}`},
		{"DELETE", "/layouts/nope", ""},
	} {
		resp, _ := do(t, app, req.method, req.target, "application/json", strings.NewReader(req.body))
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, req.method+" "+req.target)
	}

	resp, _ := do(t, app, "POST", "/layouts", "application/json", strings.NewReader("not json"))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)

	resp, data := do(t, app, "GET", "/health/live", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "alive", gjson.GetBytes(data, "status").String())

	resp, data = do(t, app, "GET", "/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ready", gjson.GetBytes(data, "status").String())
}

func TestConvert_MistypedRoom(t *testing.T) {
	app := newTestApp(t)

	body := `{"rooms": [
		{"id": "a", "type": "living", "x_m": 0, "y_m": 0, "width_m": 4, "height_m": 3},
		{"id": "b", "type": "kitchen", "x_m": 4, "y_m": 0, "width_m": "4", "height_m": 3}
	]}`
	resp, data := do(t, app, "POST", "/convert", "application/json", strings.NewReader(body))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, int64(4), gjson.GetBytes(data, "rooms.0.geometry.walls.#").Int())
	assert.Equal(t, int64(0), gjson.GetBytes(data, "rooms.1.geometry.walls.#").Int())

	resp, _ = do(t, app, "POST", "/layouts", "application/json", strings.NewReader(body))
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}
