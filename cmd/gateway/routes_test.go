package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"planner3d/internal/gateway/proxy"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRoutes_ForwardToConverter(t *testing.T) {
	seen := make(chan string, 1)
	converter := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen <- r.Method + " " + r.URL.RequestURI()
		w.WriteHeader(http.StatusOK)
	}))
	defer converter.Close()

	app := fiber.New()
	Routes(app.Group("/api/v1"), proxy.New(zap.NewNop(), 5*time.Second), converter.URL)

	tests := []struct {
		method string
		path   string
		want   string
	}{
		{"POST", "/api/v1/convert?wallHeight=3", "/convert?wallHeight=3"},
		{"POST", "/api/v1/render", "/render"},
		{"GET", "/api/v1/materials", "/materials"},
		{"GET", "/api/v1/layouts", "/layouts"},
		{"PUT", "/api/v1/layouts/abc", "/layouts/abc"},
		{"DELETE", "/api/v1/layouts/abc", "/layouts/abc"},
		{"GET", "/api/v1/layouts/abc/3d?ceilingHeight=2.8", "/layouts/abc/3d?ceilingHeight=2.8"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(tt.method, tt.path, nil))
			require.NoError(t, err)
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()

			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, tt.method+" "+tt.want, <-seen)
		})
	}
}
