package phone

import "strings"

// Mask hides all but the last two digits of a number for log output,
// e.g. "+33612345678" becomes "+33*******78".
func Mask(international string) string {
	if len(international) <= 4 {
		return strings.Repeat("*", len(international))
	}
	keepHead := 0
	if p, ok := defaultNormalizer.detect(international); ok && international[0] == '+' {
		keepHead = len(p.CallingCode)
	}
	if keepHead+2 >= len(international) {
		keepHead = 0
	}
	tail := len(international) - 2
	return international[:keepHead] + strings.Repeat("*", tail-keepHead) + international[tail:]
}
