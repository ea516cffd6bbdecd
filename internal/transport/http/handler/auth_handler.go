package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"vobon-server/internal/core/auth"
	"vobon-server/internal/transport/http/ez"
)

// CookieOptions 会话 cookie；生产环境跨站需 SameSite=None + Secure
type CookieOptions struct {
	Name   string
	Secure bool
	MaxAge time.Duration
}

func (o CookieOptions) sameSite() http.SameSite {
	if o.Secure {
		return http.SameSiteNoneMode
	}
	return http.SameSiteStrictMode
}

type AuthHandler struct {
	jwt    *auth.JWTer
	cookie CookieOptions
}

func NewAuthHandler(j *auth.JWTer, cookie CookieOptions) *AuthHandler {
	if cookie.Name == "" {
		cookie.Name = "token"
	}
	if cookie.MaxAge <= 0 {
		cookie.MaxAge = j.TTL
	}
	return &AuthHandler{jwt: j, cookie: cookie}
}

func (h *AuthHandler) Priority() int { return 10 }

type tokenIn struct {
	Email string `json:"email" binding:"required,email"`
}

type successOut struct {
	Success bool `json:"success"`
}

func (h *AuthHandler) MountAPI(pub, _ ez.EZ) {
	// /jwt：身份由上游登录方（前端 OAuth）给出，这里只签发会话
	ez.Register(pub, ez.Action[tokenIn, successOut]{
		Method: http.MethodPost,
		Path:   "/jwt",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *tokenIn) (successOut, error) {
			tok, err := h.jwt.Issue(strings.ToLower(strings.TrimSpace(in.Email)))
			if err != nil {
				return successOut{}, ez.Internal("issue token failed", err)
			}
			h.setCookie(c, tok, int(h.cookie.MaxAge/time.Second))
			return successOut{Success: true}, nil
		},
	})

	ez.Register(pub, ez.Action[struct{}, successOut]{
		Method: http.MethodPost,
		Path:   "/logout",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (successOut, error) {
			h.setCookie(c, "", -1)
			return successOut{Success: true}, nil
		},
	})
}

func (h *AuthHandler) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(h.cookie.sameSite())
	c.SetCookie(h.cookie.Name, value, maxAge, "/", "", h.cookie.Secure, true)
}
