package errors

import (
	"strings"
	"testing"
)

func TestValidateSlug(t *testing.T) {
	tests := []struct {
		name    string
		slug    string
		wantErr bool
	}{
		{"simple", "react", false},
		{"hyphenated", "vue-router", false},
		{"digits", "d3", false},
		{"empty", "", true},
		{"too long", strings.Repeat("a", MaxSlugLength+1), true},
		{"control char", "re\x00act", true},
		{"whitespace", "react native", true},
		{"slash", "facebook/react", true},
		{"backslash", `a\b`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSlug(tt.slug)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateSlug(%q) error = %v, wantErr %v", tt.slug, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidSlug) {
				t.Errorf("error code = %v, want %v", GetCode(err), ErrCodeInvalidSlug)
			}
		})
	}
}

func TestValidatePage(t *testing.T) {
	tests := []struct {
		skip, limit int
		wantErr     bool
	}{
		{0, 0, false},
		{10, 5, false},
		{-1, 5, true},
		{0, -5, true},
	}

	for _, tt := range tests {
		err := ValidatePage(tt.skip, tt.limit)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidatePage(%d, %d) error = %v, wantErr %v", tt.skip, tt.limit, err, tt.wantErr)
		}
		if err != nil && !Is(err, ErrCodeInvalidQuery) {
			t.Errorf("ValidatePage(%d, %d) code = %v, want %v", tt.skip, tt.limit, GetCode(err), ErrCodeInvalidQuery)
		}
	}
}
