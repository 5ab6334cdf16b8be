package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	ierr "github.com/revboard/revboard/internal/errors"
)

// ErrorResponse is the JSON body returned for any handler error
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Hint    string `json:"hint,omitempty"`
}

// ErrorHandlerMiddleware converts errors attached via c.Error into a JSON
// response with a status derived from the error's category mark. It must run
// before the handlers so its deferred conversion sees their errors.
func ErrorHandlerMiddleware(c *gin.Context) {
	c.Next()

	if len(c.Errors) == 0 || c.Writer.Written() {
		return
	}

	err := c.Errors.Last().Err
	c.JSON(statusForError(err), ErrorResponse{
		Success: false,
		Error:   err.Error(),
		Hint:    ierr.Hint(err),
	})
}

func statusForError(err error) int {
	switch {
	case ierr.IsValidation(err):
		return http.StatusBadRequest
	case ierr.IsNotFound(err):
		return http.StatusNotFound
	case ierr.IsHTTPClient(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
