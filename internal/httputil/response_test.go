package httputil

import (
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	apperrors "github.com/MASITH-developpement/Azalscore-sub013/internal/errors"
)

func newGinContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func TestHandleErrorGin(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{
			name:       "not found",
			err:        apperrors.Wrap(apperrors.ErrNotFound, "tenant salt"),
			wantStatus: http.StatusNotFound,
			wantError:  "not_found",
		},
		{
			name:       "conflict",
			err:        apperrors.Wrap(apperrors.ErrConflict, "recovery already in progress"),
			wantStatus: http.StatusConflict,
			wantError:  "conflict",
		},
		{
			name:       "invalid input",
			err:        apperrors.Wrap(apperrors.ErrInvalidInput, "tenant_id: must not be blank"),
			wantStatus: http.StatusUnprocessableEntity,
			wantError:  "invalid_input",
		},
		{
			name:       "isolated tenant",
			err:        apperrors.Wrap(apperrors.ErrUnavailable, "tenant t1 isolated"),
			wantStatus: http.StatusServiceUnavailable,
			wantError:  "tenant_isolated",
		},
		{
			name:       "unknown error hides details",
			err:        errors.New("pq: connection refused"),
			wantStatus: http.StatusInternalServerError,
			wantError:  "internal_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newGinContext(t)
			HandleErrorGin(c, tt.err, slog.Default())

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantError)
		})
	}
}

func TestHandleErrorGin_IsolationMessageIsStable(t *testing.T) {
	c, w := newGinContext(t)
	HandleErrorGin(c, apperrors.Wrap(apperrors.ErrUnavailable, "tenant t1 isolated: Corruption: decryption_failed"), nil)

	// The client-facing message never exposes the isolation reason.
	assert.Contains(t, w.Body.String(), "service temporarily unavailable: account isolated for data-integrity recovery")
	assert.NotContains(t, w.Body.String(), "decryption_failed")
}

func TestHandleBadRequestGin(t *testing.T) {
	c, w := newGinContext(t)
	HandleBadRequestGin(c, errors.New("invalid JSON"), slog.Default())

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "bad_request")
}

func TestHandleValidationErrorGin(t *testing.T) {
	c, w := newGinContext(t)
	HandleValidationErrorGin(c, errors.New("tenant_id: must not be blank"), slog.Default())

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "validation_error")
}
