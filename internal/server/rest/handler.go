package rest

import (
	"errors"
	"io"
	"net/http"

	"github.com/dmitrijs2005/rentscope/internal/common"
	"github.com/gin-gonic/gin"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type meResponse struct {
	Subject string `json:"subject"`
	Email   string `json:"email"`
	UserID  string `json:"userId"`
}

// bindCredentials treats an empty body as empty credentials.
func (s *HTTPServer) bindCredentials(c *gin.Context) (credentialsRequest, bool) {
	var req credentialsRequest
	err := c.ShouldBindJSON(&req)
	if err == nil || errors.Is(err, io.EOF) {
		return req, true
	}

	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		s.writeError(c, err)
		return req, false
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
	return req, false
}

func (s *HTTPServer) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *HTTPServer) signup(c *gin.Context) {
	req, ok := s.bindCredentials(c)
	if !ok {
		return
	}

	sess, err := s.users.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, tokenResponse{Token: sess.Token})
}

func (s *HTTPServer) login(c *gin.Context) {
	req, ok := s.bindCredentials(c)
	if !ok {
		return
	}

	sess, err := s.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, tokenResponse{Token: sess.Token})
}

func (s *HTTPServer) me(c *gin.Context) {
	id, ok := IdentityFromContext(c.Request.Context())
	if !ok || id == nil {
		s.writeError(c, common.ErrorUnauthorized)
		return
	}
	c.JSON(http.StatusOK, meResponse{Subject: id.Subject, Email: id.Email, UserID: id.Subject})
}

func (s *HTTPServer) logout(c *gin.Context) {
	id, ok := IdentityFromContext(c.Request.Context())
	if !ok || id == nil {
		s.writeError(c, common.ErrorUnauthorized)
		return
	}
	if err := s.users.Logout(c.Request.Context(), id); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
