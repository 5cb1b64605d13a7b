package utils

import (
	"strconv"
	"strings"
)

// StringToInt converts string to int, returns 0 if error
func StringToInt(s string) int {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return i
}

// ParseID 解析路径中的资源 ID，必须为正整数
func ParseID(s string) (int64, bool) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// PageParam 页码从 1 开始，非法值按第 1 页处理
func PageParam(s string) int {
	if p := StringToInt(s); p > 1 {
		return p
	}
	return 1
}

func FormatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
