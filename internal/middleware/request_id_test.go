package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), RequestLogger())
	r.GET("/ping", func(ctx *gin.Context) {
		ctx.String(http.StatusOK, ctx.GetString(RequestIDKey))
	})
	return r
}

func TestRequestIDGenerated(t *testing.T) {
	w := httptest.NewRecorder()
	newRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	id := w.Header().Get(RequestIDHeader)
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("expected a uuid request id, got %q", id)
	}
	if w.Body.String() != id {
		t.Fatalf("handler saw %q, header has %q", w.Body.String(), id)
	}
}

func TestRequestIDPropagated(t *testing.T) {
	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, id)

	w := httptest.NewRecorder()
	newRouter().ServeHTTP(w, req)

	if got := w.Header().Get(RequestIDHeader); got != id {
		t.Fatalf("expected %q, got %q", id, got)
	}
}

func TestRequestIDReplacesGarbage(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "not-a-uuid")

	w := httptest.NewRecorder()
	newRouter().ServeHTTP(w, req)

	if got := w.Header().Get(RequestIDHeader); got == "not-a-uuid" {
		t.Fatal("invalid request id should have been replaced")
	}
}
