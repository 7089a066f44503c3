package api

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// applyDelta resolves a D frame against the previous full payload of
// the same subscription. A delta is a tab-separated list of ops applied
// left to right:
//
//	=N   copy the next N bytes of the previous payload
//	-N   skip the next N bytes of the previous payload
//	+s   insert s, form-encoded ("+" is a space, %XX escapes)
func applyDelta(prev, delta string) (string, error) {
	var b strings.Builder
	i := 0
	for _, op := range strings.Split(delta, "\t") {
		if op == "" {
			continue
		}
		switch op[0] {
		case '+':
			text, err := url.QueryUnescape(op[1:])
			if err != nil {
				return "", fmt.Errorf("bad insert op %q: %w", op, err)
			}
			b.WriteString(text)
		case '=', '-':
			n, err := strconv.Atoi(op[1:])
			if err != nil || n < 0 {
				return "", fmt.Errorf("bad length in op %q", op)
			}
			if i+n > len(prev) {
				return "", fmt.Errorf("op %q overruns previous payload (%d bytes)", op, len(prev))
			}
			if op[0] == '=' {
				b.WriteString(prev[i : i+n])
			}
			i += n
		default:
			return "", fmt.Errorf("unknown delta op %q", op)
		}
	}
	return b.String(), nil
}
