package handlers

import (
	"net/http"
	"time"

	"restaurant_web/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type AuthHandler struct {
	auth         services.AuthService
	cookieSecure bool
	logger       *logrus.Logger
}

func NewAuthHandler(auth services.AuthService, cookieSecure bool, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, cookieSecure: cookieSecure, logger: logger}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	session, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	maxAge := int(time.Until(session.ExpiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, session.Token, maxAge, "/", "", h.cookieSecure, true)
	respond(c, http.StatusOK, session)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, "", -1, "/", "", h.cookieSecure, true)
	respond(c, http.StatusOK, gin.H{"loggedOut": true})
}

func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.auth.Me(c.Request.Context(), currentPrincipal(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, user)
}
