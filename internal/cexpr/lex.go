package cexpr

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// substitution maps the placeholders written by rewrite back to the C
// identifiers and wide integer constants they replace.
type substitution struct {
	idents map[string]string
	wide   map[string]uint64
}

// rewrite prepares C text for the expression parser. Every identifier is
// replaced by a placeholder, so C names that are operators or keywords to
// the parser (in, not, nil, matches, ...) stay plain identifiers. Integer
// constants are normalised to decimal; those above math.MaxInt64 become
// placeholders as well.
func rewrite(src string) (string, *substitution, error) {
	sub := &substitution{idents: make(map[string]string), wide: make(map[string]uint64)}
	byName := make(map[string]string)
	var sb strings.Builder
	for i := 0; i < len(src); {
		c := src[i]
		switch {
		case isIdentStart(c):
			j := i + 1
			for j < len(src) && isIdentPart(src[j]) {
				j++
			}
			name := src[i:j]
			if name == "true" || name == "false" {
				sb.WriteString(name)
			} else {
				ph, ok := byName[name]
				if !ok {
					ph = fmt.Sprintf("_v%d", len(byName))
					byName[name] = ph
					sub.idents[ph] = name
				}
				sb.WriteString(ph)
			}
			i = j
		case isDigit(c):
			j := i + 1
			for j < len(src) && isIdentPart(src[j]) {
				j++
			}
			if j < len(src) && src[j] == '.' {
				// Floating constants are left to the parser, which
				// rejects them.
				sb.WriteString(src[i:j])
				i = j
				continue
			}
			v, err := parseIntConst(src[i:j])
			if err != nil {
				return "", nil, err
			}
			if v > math.MaxInt64 {
				ph := fmt.Sprintf("_w%d", len(sub.wide))
				sub.wide[ph] = v
				sb.WriteString(ph)
			} else {
				sb.WriteString(strconv.FormatUint(v, 10))
			}
			i = j
		default:
			sb.WriteByte(c)
			i++
		}
	}
	return sb.String(), sub, nil
}

// parseIntConst reads a C integer constant with an optional u/l suffix.
func parseIntConst(text string) (uint64, error) {
	digits := strings.TrimRight(text, "uUlL")
	base := 10
	switch {
	case strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X"):
		base, digits = 16, digits[2:]
	case strings.HasPrefix(digits, "0b") || strings.HasPrefix(digits, "0B"):
		base, digits = 2, digits[2:]
	case len(digits) > 1 && digits[0] == '0':
		base, digits = 8, digits[1:]
	}
	v, err := strconv.ParseUint(digits, base, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: integer constant %s", ErrUnsupported, text)
	}
	return v, nil
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
