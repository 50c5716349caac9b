package response

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	apperrors "github.com/nomadicTree/frayerstore/internal/pkg/errors"
	"github.com/nomadicTree/frayerstore/internal/platform/apierr"
)

func TestFromError(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("subject %q: %w", "x", apperrors.ErrNotFound), http.StatusNotFound, "not_found"},
		{fmt.Errorf("bad id: %w", apperrors.ErrInvalidArgument), http.StatusBadRequest, "invalid_argument"},
		{apperrors.ErrConflict, http.StatusConflict, "conflict"},
		{errors.New("boom"), http.StatusInternalServerError, "internal"},
		{apierr.New(http.StatusTeapot, "teapot", nil), http.StatusTeapot, "teapot"},
	}
	for _, tt := range tests {
		got := FromError(tt.err)
		if got.Status != tt.status || got.Code != tt.code {
			t.Fatalf("FromError(%v) = %d/%s, want %d/%s", tt.err, got.Status, got.Code, tt.status, tt.code)
		}
	}
}
