// Package response writes the JSON bodies shared by every handler.
package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// ErrorBody is the shape of every non-2xx response
type ErrorBody struct {
	Detail string   `json:"detail"`
	Errors []string `json:"errors"`
}

// Error aborts the request with status and an ErrorBody
func Error(c *gin.Context, status int, detail string, errs ...string) {
	if errs == nil {
		errs = []string{}
	}
	c.AbortWithStatusJSON(status, ErrorBody{Detail: detail, Errors: errs})
}

// BadRequest answers 400 with detail
func BadRequest(c *gin.Context, detail string, errs ...string) {
	Error(c, http.StatusBadRequest, detail, errs...)
}

// NotFound answers 404 with detail
func NotFound(c *gin.Context, detail string) {
	Error(c, http.StatusNotFound, detail)
}

// Internal logs err and answers 500. The cause never reaches the client.
func Internal(c *gin.Context, log *zap.Logger, detail string, err error) {
	log.Error(detail,
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err))
	Error(c, http.StatusInternalServerError, detail, detail)
}

// Invalid answers 400 listing each failed binding rule
func Invalid(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fe.Field()+" failed on the '"+fe.Tag()+"' rule")
		}
		BadRequest(c, "Validation failed", msgs...)
		return
	}
	BadRequest(c, "Invalid request", err.Error())
}
