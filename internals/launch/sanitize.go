package launch

import "strings"

// sanitizeValue strips control characters and delimiter characters from a
// substituted placeholder value. Values like player names come from outside
// and have broken argument parsing of the spawned process before.
func sanitizeValue(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		switch r {
		case '$', '{', '}', '"', '\'', '`':
			return -1
		}
		return r
	}, s)
}
