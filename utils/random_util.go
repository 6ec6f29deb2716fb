package utils

import (
	"github.com/google/uuid"
)

// GetUUID 生成唯一标识，用于默认日志文件命名
func GetUUID() string {
	u, err := uuid.NewUUID()
	if err != nil {
		// NewUUID只在读不到时钟或随机源时失败，退化成随机UUID
		return uuid.NewString()
	}
	return u.String()
}
