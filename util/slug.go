package util

import (
	"fmt"

	"github.com/gosimple/slug"
)

const fallbackSlug = "user"

// UniqueSlug derives a URL slug from name and appends -1, -2, ... until exists
// reports it free.
func UniqueSlug(name string, exists func(candidate string) (bool, error)) (string, error) {
	base := slug.Make(name)
	if base == "" {
		base = fallbackSlug
	}
	candidate := base
	for i := 1; ; i++ {
		taken, err := exists(candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}
