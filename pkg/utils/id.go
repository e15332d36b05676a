package utils

import "strings"

// OptionalID 前端匿名用户会传 "", "0", "null", "undefined"，统一转为 nil
func OptionalID(id string) *string {
	switch strings.TrimSpace(id) {
	case "", "0", "null", "undefined":
		return nil
	}
	return &id
}
