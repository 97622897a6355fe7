package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	errs "github.com/techagentng/askx/errors"
	"github.com/techagentng/askx/models"
)

// JSON writes the standard envelope: {"message", "data", "errors"}.
// When err is set and message is empty the error text becomes the message.
func JSON(c *gin.Context, message string, status int, data interface{}, err error) {
	body := gin.H{}
	if err != nil {
		if message == "" {
			message = err.Error()
		}
		var verrs models.ValidationErrors
		if errors.As(err, &verrs) {
			body["errors"] = verrs.Messages()
		}
	}
	body["message"] = message
	if data != nil {
		body["data"] = data
	}
	c.JSON(status, body)
}

// HandleErrors picks the status for err and writes it. Errors that do not
// carry a status are reported as a generic 500.
func HandleErrors(c *gin.Context, err error) {
	var verrs models.ValidationErrors
	if errors.As(err, &verrs) {
		JSON(c, "", http.StatusBadRequest, nil, err)
		return
	}
	var apiErr *errs.Error
	if errors.As(err, &apiErr) {
		JSON(c, apiErr.Message, errs.StatusOf(apiErr), nil, err)
		return
	}
	JSON(c, "", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
}
