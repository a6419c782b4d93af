package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// MessageBody is the success body of GET /hello/:username.
type MessageBody struct {
	Message string `json:"message"`
}

// ErrorBody is the body of every failed request.
type ErrorBody struct {
	Error string `json:"error"`
}

func Message(c *gin.Context, status int, message string) {
	if status == 0 {
		status = http.StatusOK
	}
	c.JSON(status, MessageBody{Message: message})
}

func Error(c *gin.Context, status int, message string) {
	if status == 0 {
		status = http.StatusBadRequest
	}
	c.JSON(status, ErrorBody{Error: message})
}

// AbortError writes the error body and stops the handler chain.
func AbortError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, ErrorBody{Error: message})
}

// Created answers 201 with a Location header and no body.
func Created(c *gin.Context, location string) {
	c.Header("Location", location)
	c.Status(http.StatusCreated)
}

func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
