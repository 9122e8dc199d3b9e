//go:build !windows

package resourcepath

func isInvalidNameRune(r rune) bool {
	return r == 0
}
