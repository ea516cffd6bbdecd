package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	resp "vobon-server/internal/transport/http/response"
)

// MaxBodyBytes 限制请求体大小；声明的长度超限直接拒绝，其余由 MaxBytesReader 在读取时截断
func MaxBodyBytes(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > n {
			resp.Abort(c, resp.CodeTooLarge, "request body too large")
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}
