package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vobon-server/internal/core/auth"
	"vobon-server/internal/domain"
	resp "vobon-server/internal/transport/http/response"
)

// RoleLookup 角色以库为准（审批、降级后即时生效）
type RoleLookup interface {
	RoleOf(ctx context.Context, email string) (domain.Role, error)
}

// AuthJWT 优先读 cookie，其次 Authorization: Bearer
func AuthJWT(j *auth.JWTer, cookieName string, roles RoleLookup, l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok, _ := c.Cookie(cookieName)
		if tok == "" {
			if ah := c.GetHeader("Authorization"); strings.HasPrefix(ah, "Bearer ") {
				tok = strings.TrimPrefix(ah, "Bearer ")
			}
		}
		if tok == "" {
			resp.Abort(c, resp.CodeUnauthorized, "Unauthorized Access")
			return
		}
		claims, err := j.Parse(tok)
		if err != nil {
			resp.Abort(c, resp.CodeUnauthorized, "Unauthorized Access")
			return
		}
		email := strings.ToLower(claims.Email)
		role, err := roles.RoleOf(c.Request.Context(), email)
		if err != nil {
			l.Error("role lookup failed", zap.String("email", email), zap.Error(err))
			resp.Abort(c, resp.CodeServerError, "")
			return
		}
		// 未注册用户也视为已登录，只是没有任何角色
		SetPrincipal(c, domain.Principal{Email: email, Role: role})
		c.Next()
	}
}
