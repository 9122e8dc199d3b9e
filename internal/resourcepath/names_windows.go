//go:build windows

package resourcepath

import "strings"

func isInvalidNameRune(r rune) bool {
	return r < 32 || strings.ContainsRune(`<>:"|?*`, r)
}
