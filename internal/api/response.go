package api

import (
	"github.com/gin-gonic/gin"
)

// APIResponse is the envelope every artifact route returns.
type APIResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func successResponse(c *gin.Context, code int, data any) {
	c.JSON(code, APIResponse{
		Success: true,
		Data:    data,
	})
}

func errorResponse(c *gin.Context, code int, message string, err error) {
	response := APIResponse{
		Success: false,
		Message: message,
	}
	if err != nil {
		response.Error = err.Error()
	}
	c.JSON(code, response)
}
