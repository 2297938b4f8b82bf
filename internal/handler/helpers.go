package handler

import (
	"errors"
	"net/http"

	"github.com/ken6921-byte/zuinsurance-app/internal/apierror"
	"github.com/ken6921-byte/zuinsurance-app/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON 格式錯誤："+err.Error()))
		return false
	}
	return validateStruct(c, req)
}

func validateStruct(c *gin.Context, req interface{}) bool {
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// respondServiceError translates the service error taxonomy to HTTP statuses:
// missing rows to 404, exhausted daily ceilings to 429, upstream model
// failures to 502, everything else to 400 with the message as-is.
func respondServiceError(c *gin.Context, err error) {
	var limitErr *service.LimitError
	var aiErr *service.AIError
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case errors.As(err, &limitErr):
		c.JSON(http.StatusTooManyRequests, apierror.New(limitErr.Error()))
	case errors.As(err, &aiErr):
		c.JSON(http.StatusBadGateway, apierror.New(aiErr.Error()))
	default:
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	}
}
