package site

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/codeharbor/portfolio/internal/session"
)

type loginRequest struct {
	Token string `json:"token"`
}

type SessionResponse struct {
	Authenticated bool            `json:"authenticated"`
	Claims        *session.Claims `json:"claims,omitempty"`
}

// sessionHandler keeps each caller's token in that caller's auth_token
// cookie. The server itself holds no session.
type sessionHandler struct {
	secure bool
}

func (h *sessionHandler) register(g *gin.RouterGroup) {
	g.GET("", h.show)
	g.POST("", h.login)
	g.DELETE("", h.logout)
}

func (h *sessionHandler) show(c *gin.Context) {
	c.JSON(http.StatusOK, sessionResponse(session.TokenFromContext(c.Request.Context())))
}

func (h *sessionHandler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	token := strings.TrimSpace(req.Token)
	if token == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": session.ErrEmptyToken.Error()})
		return
	}
	h.setCookie(c, token, int(session.Lifetime.Seconds()))
	c.JSON(http.StatusOK, sessionResponse(token))
}

func (h *sessionHandler) logout(c *gin.Context) {
	h.setCookie(c, "", -1)
	c.JSON(http.StatusOK, SessionResponse{})
}

func (h *sessionHandler) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(session.CookieName, value, maxAge, "/", "", h.secure, true)
}

func sessionResponse(token string) SessionResponse {
	resp := SessionResponse{Authenticated: token != ""}
	if resp.Authenticated {
		// opaque tokens have no claims to show
		if claims, err := session.ParseClaims(token); err == nil {
			resp.Claims = claims
		}
	}
	return resp
}
