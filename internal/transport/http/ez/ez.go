// Package ez 把 gin handler 收敛成「入参 → 出参 / error」的动作函数，
// 统一处理鉴权、绑定、错误映射和响应信封。
package ez

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vobon-server/internal/domain"
	mdw "vobon-server/internal/transport/http/middleware"
	resp "vobon-server/internal/transport/http/response"
)

type EZ struct {
	g *gin.RouterGroup
	l *zap.Logger
}

func New(g *gin.RouterGroup, l *zap.Logger) EZ {
	if l == nil {
		l = zap.NewNop()
	}
	return EZ{g: g, l: l}
}

// With 同一前缀下追加中间件（如鉴权）
func (e EZ) With(mw ...gin.HandlerFunc) EZ { return EZ{g: e.g.Group("", mw...), l: e.l} }

// 绑定方式
type Binder string

const (
	BindJSON         Binder = "json"          // 从 JSON 绑定
	BindOptionalJSON Binder = "json-optional" // 允许空 body
	BindQuery        Binder = "query"         // 从 URL ?a=b 绑定
	BindNone         Binder = "none"          // 不绑定，自己从 c.Param 取
)

// 动作定义：I 入参，O 出参
type Action[I any, O any] struct {
	Method  string        // GET | POST | PUT | PATCH | DELETE
	Path    string        // 例："/accept-agreement-request/:id"
	Binder  Binder        // 绑定方式
	Auth    bool          // 是否要求登录
	Roles   []domain.Role // 限定角色（可选，隐含 Auth）
	Handler func(c *gin.Context, in *I) (O, error)
}

// Caller 取当前调用者（handler 内使用）
func Caller(c *gin.Context) domain.Principal {
	p, _ := mdw.Principal(c)
	return p
}

func Register[I any, O any](e EZ, a Action[I, O]) {
	h := func(c *gin.Context) {
		// 1) 鉴权/角色
		if a.Auth || len(a.Roles) > 0 {
			p, ok := mdw.Principal(c)
			if !ok {
				resp.Write(c, resp.Error(resp.CodeUnauthorized, "Unauthorized Access"))
				return
			}
			if len(a.Roles) > 0 && !hasRole(p.Role, a.Roles) {
				resp.Write(c, resp.Error(resp.CodeForbidden, "Forbidden Access"))
				return
			}
		}

		// 2) 绑定入参
		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindOptionalJSON:
			if err := c.ShouldBindJSON(&in); err != nil && !errors.Is(err, io.EOF) {
				bindErr = err
			}
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		default: // BindNone: 不绑定
		}
		if bindErr != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(bindErr, &tooLarge) {
				resp.Write(c, resp.Error(resp.CodeTooLarge, "request body too large"))
				return
			}
			resp.Write(c, resp.Error(resp.CodeBadRequest, bindErr.Error()))
			return
		}

		// 3) 执行 + 统一错误映射
		out, err := a.Handler(c, &in)
		if err != nil {
			ae := FromError(err)
			if ae.Code >= resp.CodeServerError {
				e.l.Error("action failed",
					zap.String("rid", mdw.RequestIDFrom(c)),
					zap.String("path", a.Path),
					zap.Error(err),
				)
			}
			resp.Write(c, resp.Error(ae.Code, ae.Error()))
			return
		}
		resp.Write(c, resp.OK(out))
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodPatch:
		e.g.PATCH(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default: // 默认 POST
		e.g.POST(a.Path, h)
	}
}

func hasRole(role domain.Role, allowed []domain.Role) bool {
	for _, r := range allowed {
		if role == r {
			return true
		}
	}
	return false
}
