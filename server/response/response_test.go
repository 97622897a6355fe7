package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	errs "github.com/techagentng/askx/errors"
	"github.com/techagentng/askx/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func record(fn func(c *gin.Context)) (*httptest.ResponseRecorder, map[string]interface{}) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	fn(c)
	var body map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func TestJSONSuccess(t *testing.T) {
	w, body := record(func(c *gin.Context) {
		JSON(c, "voted", http.StatusCreated, gin.H{"voteResult": 1}, nil)
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "voted", body["message"])
	assert.Equal(t, map[string]interface{}{"voteResult": float64(1)}, body["data"])
	assert.NotContains(t, body, "errors")
}

func TestHandleErrorsTypedStatus(t *testing.T) {
	w, body := record(func(c *gin.Context) {
		HandleErrors(c, errors.Wrap(errs.New("question not found", http.StatusNotFound), "cast vote"))
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, map[string]interface{}{"message": "question not found"}, body)
}

func TestHandleErrorsValidation(t *testing.T) {
	w, body := record(func(c *gin.Context) {
		HandleErrors(c, models.ValidationErrors{fmt.Errorf("type is a required field")})
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "type is a required field", body["message"])
	assert.Equal(t, []interface{}{"type is a required field"}, body["errors"])
}

func TestHandleErrorsHidesUntypedErrors(t *testing.T) {
	w, body := record(func(c *gin.Context) {
		HandleErrors(c, fmt.Errorf("pq: password authentication failed"))
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal server error", body["message"])
}
