package utils

import "testing"

func TestCacheKey(t *testing.T) {
	tests := []struct {
		prefix string
		params []any
		want   string
	}{
		{"investors", []any{"HCM", ""}, `investors:"HCM":""`},
		{"investors", []any{"", "HCM"}, `investors:"":"HCM"`},
		{"investors", []any{"a:b", ""}, `investors:"a:b":""`},
		{"page", []any{3}, `page:"3"`},
		{"bare", nil, "bare"},
	}
	for _, tt := range tests {
		if got := CacheKey(tt.prefix, tt.params...); got != tt.want {
			t.Errorf("CacheKey(%q, %v) = %q; want %q", tt.prefix, tt.params, got, tt.want)
		}
	}

	if CacheKey("k", "a:b", "") == CacheKey("k", "a", "b") {
		t.Error("keys with shifted separators must differ")
	}
}
