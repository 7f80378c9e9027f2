package mounter

import "strings"

// Match reports whether name matches pattern, ignoring case.
//
// Supported wildcards:
//
//	#  matches exactly one decimal digit
//	?  matches exactly one character
//	*  matches any sequence of characters, including none
func Match(name, pattern string) bool {
	n := []rune(strings.ToLower(name))
	p := []rune(strings.ToLower(pattern))

	ni, pi := 0, 0
	// Position after the last '*' and the name position it was tried with
	star, mark := -1, 0

	for ni < len(n) {
		if pi < len(p) {
			switch p[pi] {
			case '*':
				star, mark = pi, ni
				pi++
				continue
			case '?':
				ni++
				pi++
				continue
			case '#':
				if n[ni] >= '0' && n[ni] <= '9' {
					ni++
					pi++
					continue
				}
			default:
				if p[pi] == n[ni] {
					ni++
					pi++
					continue
				}
			}
		}

		if star < 0 {
			return false
		}

		// Let the last '*' swallow one more character and retry
		mark++
		ni = mark
		pi = star + 1
	}

	for pi < len(p) && p[pi] == '*' {
		pi++
	}

	return pi == len(p)
}
