package router

import (
	"sort"

	"vobon-server/internal/transport/http/ez"
)

// APIModule pub 为公共分组，authed 已挂载会话鉴权
type APIModule interface{ MountAPI(pub, authed ez.EZ) }

// 可选：实现该接口可控制挂载顺序（数值越小越先挂）
// 不实现则默认 100
type prioritizer interface{ Priority() int }

type Registry struct{ mods []APIModule }

func (r *Registry) Register(mods ...APIModule) { r.mods = append(r.mods, mods...) }

// MountAll 按优先级挂载全部模块
func (r *Registry) MountAll(pub, authed ez.EZ) {
	mods := append([]APIModule(nil), r.mods...)
	sort.SliceStable(mods, func(i, j int) bool {
		return priorityOf(mods[i]) < priorityOf(mods[j])
	})
	for _, m := range mods {
		m.MountAPI(pub, authed)
	}
}

func priorityOf(v any) int {
	if p, ok := v.(prioritizer); ok {
		return p.Priority()
	}
	return 100
}
