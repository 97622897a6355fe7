package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	errs "github.com/techagentng/askx/errors"
	"github.com/techagentng/askx/models"
)

// decode binds the JSON body into v, then trims and validates it.
func decode(c *gin.Context, v interface{}) error {
	if err := c.ShouldBindJSON(v); err != nil {
		return errs.New("invalid request body: "+err.Error(), http.StatusBadRequest)
	}
	return models.ValidateStruct(v)
}

// decodeQuery is decode for query string parameters.
func decodeQuery(c *gin.Context, v interface{}) error {
	if err := c.ShouldBindQuery(v); err != nil {
		return errs.New("invalid query: "+err.Error(), http.StatusBadRequest)
	}
	return models.ValidateStruct(v)
}

func statusOf(err error) int {
	var verrs models.ValidationErrors
	if errors.As(err, &verrs) {
		return http.StatusBadRequest
	}
	return errs.StatusOf(err)
}
