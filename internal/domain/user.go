package domain

import (
	"context"
	"time"
)

type Role string

const (
	RoleUser   Role = "user"
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleMember, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Email     string    `gorm:"uniqueIndex;size:191;not null" json:"email"`
	Name      string    `gorm:"size:128" json:"name"`
	PhotoURL  string    `gorm:"size:512" json:"photoURL"`
	Role      Role      `gorm:"size:16;not null;default:user;index" json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (User) TableName() string { return "users" }

// Principal 当前请求的调用者（邮箱来自会话，角色来自库）
type Principal struct {
	Email string
	Role  Role
}

func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }

type UserRepository interface {
	// CreateIfAbsent 以 email 唯一约束插入；已存在时返回库中记录且 created=false
	CreateIfAbsent(ctx context.Context, u *User) (stored *User, created bool, err error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	ListByRole(ctx context.Context, role Role) ([]User, error)
	// SetRole 仅当当前角色属于 from（为空则不限）时更新，返回受影响行数
	SetRole(ctx context.Context, email string, to Role, from ...Role) (int64, error)
	CountByRole(ctx context.Context) (map[Role]int64, error)
}
