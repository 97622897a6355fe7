package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, StatusOf(New("question not found", http.StatusNotFound)))
	assert.Equal(t, http.StatusConflict, StatusOf(errors.Wrap(ErrConflict, "create vote")))
	assert.Equal(t, http.StatusConflict, StatusOf(fmt.Errorf("outer: %w", ErrConflict)))
	assert.Equal(t, http.StatusInternalServerError, StatusOf(fmt.Errorf("boom")))
	assert.Equal(t, http.StatusInternalServerError, StatusOf(&Error{Message: "no status"}))
}

func TestIsMatchesSentinel(t *testing.T) {
	err := errors.Wrap(New("not found", http.StatusNotFound), "find question")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrConflict)
}

func TestErrorHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	ErrorHandler(c, ratelimit.Info{ResetTime: time.Now().Add(10 * time.Second), RateLimited: true})

	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.True(t, c.IsAborted())
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body["message"], "Too many requests")
}
