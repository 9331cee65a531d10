package petsync

import "strings"

// maxAge es el tope del Int de GraphQL (int32).
const maxAge = 1<<31 - 1

// parseAge toma el entero inicial del texto ("3", " 12 años", "-1").
// ok=false si no hay dígitos.
func parseAge(s string) (int, bool) {
	s = strings.TrimLeft(s, " \t\n\r")
	if s == "" {
		return 0, false
	}

	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}

	n, digits := 0, 0
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		d := int(r - '0')
		if n > (maxAge-d)/10 {
			return 0, false
		}
		n = n*10 + d
		digits++
	}
	if digits == 0 {
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}
