package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	pkgvalidator "github.com/jwalitptl/care-portal-api/pkg/validator"
)

// ValidationError is one rejected request field
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var fieldMessages = map[string]string{
	"required": "field is required",
	"email":    "invalid email format",
	"min":      "value is too short",
	"max":      "value is too long",
	"oneof":    "value is not one of the allowed options",
	"uuid":     "invalid identifier",
	"url":      "invalid URL",
}

// Validation renders binding errors pushed with c.Error as a 400 listing
// each invalid field by its json name
func Validation() gin.HandlerFunc {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(pkgvalidator.JSONTagName)
	}

	return func(c *gin.Context) {
		c.Next()

		bindErrs := c.Errors.ByType(gin.ErrorTypeBind)
		if len(bindErrs) == 0 || c.Writer.Written() {
			return
		}

		var fields []ValidationError
		for _, e := range bindErrs {
			var errs validator.ValidationErrors
			if !errors.As(e.Err, &errs) {
				continue
			}
			for _, fe := range errs {
				msg := fieldMessages[fe.Tag()]
				if msg == "" {
					msg = fe.Error()
				}
				fields = append(fields, ValidationError{Field: fe.Field(), Message: msg})
			}
		}

		body := gin.H{"status": "error", "kind": "validation", "message": "invalid request body"}
		if len(fields) > 0 {
			body["errors"] = fields
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, body)
	}
}
