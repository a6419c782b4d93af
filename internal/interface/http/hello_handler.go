package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/hello-birthday/internal/application"
	"github.com/oksasatya/hello-birthday/internal/interface/middleware"
	"github.com/oksasatya/hello-birthday/pkg/response"
	"github.com/oksasatya/hello-birthday/pkg/validation"
)

// HelloPath is the route prefix served by HelloHandler.
const HelloPath = "/hello/"

// MaxBodyBytes bounds the PUT body; a valid payload is a few dozen bytes.
const MaxBodyBytes = 4 << 10

const (
	MsgBodyTooLarge     = "Request body too large."
	MsgBodyUnreadable   = "Unable to read request body."
	MsgMethodNotAllowed = "Method not allowed."
)

type HelloHandler struct {
	Svc    *application.Service
	Logger *logrus.Logger
}

func NewHelloHandler(svc *application.Service, logger *logrus.Logger) *HelloHandler {
	return &HelloHandler{Svc: svc, Logger: logger}
}

// Put stores the date of birth from the JSON body.
// 201 with Location on creation, 204 on update.
func (h *HelloHandler) Put(c *gin.Context) {
	username := c.Param("username")
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes)
	body, err := c.GetRawData()
	if err != nil {
		h.failBody(c, username, err)
		return
	}

	created, err := h.Svc.SaveBirthday(c.Request.Context(), username, body)
	if err != nil {
		h.fail(c, username, err)
		return
	}
	if created {
		response.Created(c, HelloPath+username)
		return
	}
	response.NoContent(c)
}

// Get returns the birthday greeting for username.
func (h *HelloHandler) Get(c *gin.Context) {
	username := c.Param("username")
	msg, err := h.Svc.Greet(c.Request.Context(), username)
	if err != nil {
		h.fail(c, username, err)
		return
	}
	response.Message(c, http.StatusOK, msg)
}

// InvalidPath answers requests under /hello/ that do not carry exactly one
// path segment, as an invalid username.
func InvalidPath(c *gin.Context) {
	response.AbortError(c, http.StatusBadRequest, application.MsgInvalidUsername)
}

// MethodNotAllowed answers 405 for routes that exist under another method.
// A bad username segment is still reported first.
func MethodNotAllowed(c *gin.Context) {
	path := c.Request.URL.Path
	if IsHelloPath(path) && !validation.ValidateUsername(strings.TrimPrefix(path, HelloPath)) {
		InvalidPath(c)
		return
	}
	response.AbortError(c, http.StatusMethodNotAllowed, MsgMethodNotAllowed)
}

// IsHelloPath reports whether path belongs to the hello routes.
func IsHelloPath(path string) bool {
	return strings.HasPrefix(path, HelloPath)
}

func (h *HelloHandler) failBody(c *gin.Context, username string, err error) {
	msg := MsgBodyUnreadable
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		msg = MsgBodyTooLarge
	}
	if !validation.ValidateUsername(username) {
		msg = application.MsgInvalidUsername
	}
	if h.Logger != nil {
		h.Logger.WithError(err).WithField("request_id", c.GetString(middleware.RequestIDKey)).Warn("request body rejected")
	}
	response.Error(c, http.StatusBadRequest, msg)
}

func (h *HelloHandler) fail(c *gin.Context, username string, err error) {
	reason := application.ReasonOf(err)
	status := http.StatusBadRequest
	if !reason.ClientError() {
		status = http.StatusInternalServerError
		if h.Logger != nil {
			h.Logger.WithError(err).WithFields(logrus.Fields{
				"request_id": c.GetString(middleware.RequestIDKey),
				"username":   username,
				"method":     c.Request.Method,
			}).Error("store failure")
		}
	}
	response.Error(c, status, application.PublicMessage(err))
}
