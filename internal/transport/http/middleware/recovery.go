package middleware

import (
	"github.com/gin-gonic/gin"
	ginzap "github.com/gin-contrib/zap"
	"go.uber.org/zap"

	resp "vobon-server/internal/transport/http/response"
)

// Recovery panic 记录堆栈并返回统一信封
func Recovery(l *zap.Logger) gin.HandlerFunc {
	return ginzap.CustomRecoveryWithZap(l, true, func(c *gin.Context, _ any) {
		resp.Abort(c, resp.CodeServerError, "internal error")
	})
}
