package utils

import (
	"fmt"
	"strings"
)

// CacheKey joins a prefix and parameters into a cache key. Each parameter is
// quoted so that ("a:b", "") and ("a", "b") never collide.
func CacheKey(prefix string, params ...any) string {
	var b strings.Builder
	b.WriteString(prefix)
	for _, p := range params {
		b.WriteByte(':')
		b.WriteString(fmt.Sprintf("%q", fmt.Sprint(p)))
	}
	return b.String()
}
