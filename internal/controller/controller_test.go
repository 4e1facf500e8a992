package controller

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/lshigami/Bastion/internal/service"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{err: service.ErrInvalidUserID, want: http.StatusBadRequest},
		{err: fmt.Errorf("wrapped: %w", service.ErrInvalidRank), want: http.StatusBadRequest},
		{err: fmt.Errorf("module x: %w", service.ErrModuleNotFound), want: http.StatusNotFound},
		{err: service.ErrFlagNotConfigured, want: http.StatusNotFound},
		{err: fmt.Errorf("user 1: %w", service.ErrAlreadySolved), want: http.StatusConflict},
		{err: service.ErrDuplicateModuleName, want: http.StatusConflict},
		{err: service.ErrFlagModeAlreadySet, want: http.StatusConflict},
		{err: errors.New("connection refused"), want: http.StatusInternalServerError},
		{err: service.ErrServerKeyMalformed, want: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := StatusFor(tt.err); got != tt.want {
			t.Errorf("StatusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestParseUserID(t *testing.T) {
	for _, raw := range []string{"", "0", "-3", "abc", "1.5"} {
		if _, err := ParseUserID(raw); !errors.Is(err, service.ErrInvalidUserID) {
			t.Errorf("ParseUserID(%q) should fail, got %v", raw, err)
		}
	}
	if id, err := ParseUserID("42"); err != nil || id != 42 {
		t.Fatalf("ParseUserID(42) = %d, %v", id, err)
	}
}
