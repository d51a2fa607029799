package response

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gin-gonic/gin"
)

// TryValidation writes a 400 when err carries ozzo field errors and
// reports whether it did.
func TryValidation(c *gin.Context, err error) bool {
	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		ValidationError(c, fieldErrs)
		return true
	}

	var internal validation.InternalError
	if errors.As(err, &internal) {
		return false
	}

	var single validation.Error
	if errors.As(err, &single) {
		BadRequest(c, single.Error())
		return true
	}
	return false
}
