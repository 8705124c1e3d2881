package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the envelope every endpoint returns, success or failure.
type Response struct {
	IsSuccess  bool        `json:"isSuccess"`
	Message    string      `json:"message"`
	StatusCode int         `json:"statusCode"`
	Data       interface{} `json:"data,omitempty"`
}

func respondOK(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		IsSuccess:  true,
		Message:    message,
		StatusCode: http.StatusOK,
		Data:       data,
	})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, Response{
		IsSuccess:  false,
		Message:    message,
		StatusCode: status,
	})
}

func abortError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, Response{
		IsSuccess:  false,
		Message:    message,
		StatusCode: status,
	})
}
