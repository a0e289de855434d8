package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"barkeep/internal/core/apperror"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter() *gin.Engine {
	r := gin.New()
	// Same nesting as the real router: ErrorHandler outside Recovery.
	r.Use(ErrorHandler(), Recovery())
	return r
}

func doRequest(r *gin.Engine, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestErrorHandler_AppError(t *testing.T) {
	r := newTestRouter()
	r.GET("/boom", func(c *gin.Context) {
		_ = c.Error(apperror.NewNotFound("product", "abc"))
		c.Abort()
	})

	w := doRequest(r, http.MethodGet, "/boom", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	body := decodeError(t, w)
	assert.Equal(t, apperror.CodeNotFound, body["code"])
	assert.Equal(t, "product not found", body["message"])
}

func TestErrorHandler_UnknownErrorHidesDetails(t *testing.T) {
	r := newTestRouter()
	r.GET("/boom", func(c *gin.Context) {
		_ = c.Error(fmt.Errorf("pq: relation does not exist"))
		c.Abort()
	})

	w := doRequest(r, http.MethodGet, "/boom", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeError(t, w)
	assert.Equal(t, apperror.CodeInternal, body["code"])
	assert.NotContains(t, w.Body.String(), "relation")
}

func TestErrorHandler_DoesNotOverrideWrittenResponse(t *testing.T) {
	r := newTestRouter()
	r.GET("/half", func(c *gin.Context) {
		c.JSON(http.StatusAccepted, gin.H{"status": "partial"})
		_ = c.Error(fmt.Errorf("late failure"))
	})

	w := doRequest(r, http.MethodGet, "/half", nil)

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Contains(t, w.Body.String(), "partial")
}

func TestRecovery_PanicBecomesInternalError(t *testing.T) {
	r := newTestRouter()
	r.GET("/panic", func(c *gin.Context) {
		panic("nil map write")
	})

	w := doRequest(r, http.MethodGet, "/panic", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeError(t, w)
	assert.Equal(t, apperror.CodeInternal, body["code"])
}

// staticValidator accepts one token and names its operator.
type staticValidator struct {
	token    string
	operator string
}

func (v staticValidator) Validate(tokenString string) (string, error) {
	if tokenString != v.token {
		return "", apperror.NewUnauthorized("invalid or expired session")
	}
	return v.operator, nil
}

func TestAuth(t *testing.T) {
	validator := staticValidator{token: "good-token", operator: "ravi"}

	r := newTestRouter()
	r.Use(Auth(validator))
	r.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"operator": c.GetString("operator")})
	})

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"valid token", "Bearer good-token", http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"malformed header", "good-token", http.StatusUnauthorized},
		{"wrong scheme", "Basic good-token", http.StatusUnauthorized},
		{"bad token", "Bearer stale-token", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := map[string]string{}
			if tt.header != "" {
				headers["Authorization"] = tt.header
			}
			w := doRequest(r, http.MethodGet, "/me", headers)
			assert.Equal(t, tt.status, w.Code)
		})
	}

	w := doRequest(r, http.MethodGet, "/me", map[string]string{"Authorization": "Bearer good-token"})
	assert.Contains(t, w.Body.String(), "ravi")
}

func TestRequestID_GeneratedAndEchoed(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	w := doRequest(r, http.MethodGet, "/", nil)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = doRequest(r, http.MethodGet, "/", map[string]string{"X-Request-ID": "req-42"})
	assert.Equal(t, "req-42", w.Header().Get("X-Request-ID"))
}
