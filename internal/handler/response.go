package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/papikos/notification-service/internal/apperrors"
)

// errorResponse is the stable error payload returned by every endpoint.
type errorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

// respondError maps an error to its boundary status and code. Unclassified
// errors are reported as internal without leaking detail.
func respondError(c *gin.Context, err error) {
	kind := apperrors.KindOf(err)
	status := apperrors.HTTPStatus(err)

	message := err.Error()
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		message = appErr.Message
	} else if status == http.StatusInternalServerError {
		message = "internal server error"
	}

	c.JSON(status, errorResponse{Code: string(kind), Error: message})
}

// respondBindingError turns a gin binding failure into a 400 with field detail.
func respondBindingError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fe.Field())
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"code":   string(apperrors.KindInvalid),
			"error":  "invalid request payload",
			"fields": fields,
		})
		return
	}
	c.JSON(http.StatusBadRequest, errorResponse{
		Code:  string(apperrors.KindInvalid),
		Error: "invalid request payload",
	})
}
