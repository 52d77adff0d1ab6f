package utils

import (
	"github.com/google/uuid"
)

// GenerateRequestID tạo request ID (UUID v4)
func GenerateRequestID() string {
	return uuid.NewString()
}

// IsValidRequestID kiểm tra request ID client gửi lên: chấp nhận chuỗi in được,
// tối đa 128 ký tự
func IsValidRequestID(id string) bool {
	if id == "" || len(id) > 128 {
		return false
	}
	for _, r := range id {
		if r < 0x21 || r > 0x7e {
			return false
		}
	}
	return true
}
