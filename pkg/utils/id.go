package utils

import "github.com/google/uuid"

// NewID 生成主键（uuid v4 字符串）
func NewID() string { return uuid.NewString() }
