package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIError is the wire form of a request failure.
type APIError struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func respondError(c *gin.Context, status int, errLabel, message string) {
	c.JSON(status, APIError{Error: errLabel, Message: message})
}

func respondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
