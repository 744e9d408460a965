package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestSPAHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	dist := fstest.MapFS{
		"index.html":       {Data: []byte("<html>app</html>")},
		"assets/app.js":    {Data: []byte("console.log(1)")},
		"images/house.jpg": {Data: []byte("jpg")},
	}
	router := gin.New()
	router.NoRoute(spaHandler(dist))

	tests := []struct {
		name     string
		method   string
		path     string
		wantCode int
		wantBody string
	}{
		{name: "root", method: http.MethodGet, path: "/", wantCode: http.StatusOK, wantBody: "<html>app</html>"},
		{name: "asset", method: http.MethodGet, path: "/assets/app.js", wantCode: http.StatusOK, wantBody: "console.log(1)"},
		{name: "client route", method: http.MethodGet, path: "/properties/42", wantCode: http.StatusOK, wantBody: "<html>app</html>"},
		{name: "directory", method: http.MethodGet, path: "/assets", wantCode: http.StatusOK, wantBody: "<html>app</html>"},
		{name: "unknown api", method: http.MethodGet, path: "/api/v1/nope", wantCode: http.StatusNotFound, wantBody: "API endpoint not found"},
		{name: "post", method: http.MethodPost, path: "/", wantCode: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}
