package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/productcatalog/internal/auth/application"
	"github.com/wyfcoding/productcatalog/internal/auth/domain"
)

// Handler 登录/登出网关
type Handler struct {
	svc        *application.AuthService
	cookieName string
}

func NewHandler(svc *application.AuthService, cookieName string) *Handler {
	return &Handler{svc: svc, cookieName: cookieName}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/login", h.LoginForm)
	r.POST("/login", h.Login)
	r.POST("/logout", h.Logout)
}

func (h *Handler) LoginForm(c *gin.Context) {
	if CurrentActor(c).Authenticated {
		c.Redirect(http.StatusFound, "/products")
		return
	}
	c.HTML(http.StatusOK, "login.html", gin.H{})
}

func (h *Handler) Login(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")

	session, err := h.svc.Login(c.Request.Context(), application.LoginCommand{
		Email:    email,
		Password: password,
	})
	if err != nil {
		status := http.StatusInternalServerError
		message := "login failed"
		if errors.Is(err, domain.ErrInvalidCredentials) {
			status = http.StatusUnprocessableEntity
			message = "These credentials do not match our records."
		}
		c.HTML(status, "login.html", gin.H{"error": message, "email": email})
		return
	}

	maxAge := int(session.ExpiresAt.Sub(session.CreatedAt).Seconds())
	c.SetCookie(h.cookieName, session.Token, maxAge, "/", "", false, true)
	c.Redirect(http.StatusFound, "/products")
}

func (h *Handler) Logout(c *gin.Context) {
	if token, err := c.Cookie(h.cookieName); err == nil && token != "" {
		_ = h.svc.Logout(c.Request.Context(), token)
	}
	c.SetCookie(h.cookieName, "", -1, "/", "", false, true)
	c.Redirect(http.StatusFound, "/login")
}
