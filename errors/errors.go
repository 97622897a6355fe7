package errors

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"
)

// Error is an error that knows which HTTP status it should be reported with.
type Error struct {
	Message string `json:"message"`
	Status  int    `json:"-"`
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches on status and message so sentinels can be compared with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Status == e.Status && t.Message == e.Message
}

func New(message string, status int) *Error {
	return &Error{
		Message: message,
		Status:  status,
	}
}

func Newf(status int, format string, args ...interface{}) *Error {
	return New(fmt.Sprintf(format, args...), status)
}

var (
	ErrBadRequest          = New("bad request", http.StatusBadRequest)
	ErrNotFound            = New("not found", http.StatusNotFound)
	ErrConflict            = New("conflict", http.StatusConflict)
	ErrTooManyRequests     = New("too many requests", http.StatusTooManyRequests)
	ErrInternalServerError = New("internal server error", http.StatusInternalServerError)
)

// StatusOf returns the HTTP status carried by err, or 500 when it carries none.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) && e.Status != 0 {
		return e.Status
	}
	return http.StatusInternalServerError
}

// ErrorHandler answers requests rejected by the rate limiter.
func ErrorHandler(c *gin.Context, info ratelimit.Info) {
	c.Header("Retry-After", fmt.Sprintf("%.0f", time.Until(info.ResetTime).Seconds()))
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
		"message": "Too many requests. Try again in " + time.Until(info.ResetTime).Round(time.Second).String(),
	})
}
