package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse универсальный ответ на ошибку
// @Description Стандартный ответ при возникновении ошибки
type ErrorResponse struct {
	// Флаг успешного выполнения (всегда false)
	Success bool `json:"success" example:"false"`
	// HTTP статус код
	StatusCode int `json:"status_code" example:"400"`
	// Тип ошибки
	ErrorType string `json:"error_type" example:"Bad Request"`
	// Описание ошибки
	Message string `json:"message" example:"Invalid request parameters"`
}

const (
	ErrTypeBadRequest         = "Bad Request"
	ErrTypeUnauthorized       = "Unauthorized"
	ErrTypeNotFound           = "Not Found"
	ErrTypeInternal           = "Internal Server Error"
	ErrTypeServiceUnavailable = "Service Unavailable"
)

// NewErrorResponse создает новый ErrorResponse
func NewErrorResponse(statusCode int, errorType, message string) ErrorResponse {
	return ErrorResponse{
		Success:    false,
		StatusCode: statusCode,
		ErrorType:  errorType,
		Message:    message,
	}
}

func BadRequestError(message string) ErrorResponse {
	return NewErrorResponse(http.StatusBadRequest, ErrTypeBadRequest, message)
}

func UnauthorizedError(message string) ErrorResponse {
	return NewErrorResponse(http.StatusUnauthorized, ErrTypeUnauthorized, message)
}

func NotFoundError(message string) ErrorResponse {
	return NewErrorResponse(http.StatusNotFound, ErrTypeNotFound, message)
}

func InternalServerError(message string) ErrorResponse {
	return NewErrorResponse(http.StatusInternalServerError, ErrTypeInternal, message)
}

func ServiceUnavailableError(message string) ErrorResponse {
	return NewErrorResponse(http.StatusServiceUnavailable, ErrTypeServiceUnavailable, message)
}

// abort отвечает ошибкой и прерывает цепочку обработчиков
func abort(c *gin.Context, resp ErrorResponse) {
	c.AbortWithStatusJSON(resp.StatusCode, resp)
}
