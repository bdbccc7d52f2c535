package errors

import (
	"strings"
	"unicode"
)

// MaxSlugLength bounds slugs accepted from callers.
const MaxSlugLength = 200

// ValidateSlug validates a project slug received from a caller.
// It rejects names that could never be produced by the slug function:
//   - empty slugs
//   - control characters and whitespace
//   - path separators
//   - slugs longer than [MaxSlugLength]
//
// A valid slug may still be unknown; that is not an error.
func ValidateSlug(slug string) error {
	if slug == "" {
		return New(ErrCodeInvalidSlug, "slug cannot be empty")
	}
	if len(slug) > MaxSlugLength {
		return New(ErrCodeInvalidSlug, "slug too long (max %d characters)", MaxSlugLength)
	}
	for _, r := range slug {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidSlug, "slug contains invalid characters")
		}
	}
	if strings.ContainsAny(slug, `/\`) {
		return New(ErrCodeInvalidSlug, "slug cannot contain path separators")
	}
	return nil
}

// ValidatePage validates skip and limit values of a query.
func ValidatePage(skip, limit int) error {
	if skip < 0 {
		return New(ErrCodeInvalidQuery, "skip must be non-negative, got %d", skip)
	}
	if limit < 0 {
		return New(ErrCodeInvalidQuery, "limit must be non-negative, got %d", limit)
	}
	return nil
}
