package middleware

import (
	"github.com/gin-gonic/gin"

	"vobon-server/internal/domain"
)

const keyPrincipal = "principal"

func SetPrincipal(c *gin.Context, p domain.Principal) { c.Set(keyPrincipal, p) }

// Principal 取当前调用者；未登录时 ok=false
func Principal(c *gin.Context) (domain.Principal, bool) {
	v, ok := c.Get(keyPrincipal)
	if !ok {
		return domain.Principal{}, false
	}
	p, ok := v.(domain.Principal)
	return p, ok && p.Email != ""
}
