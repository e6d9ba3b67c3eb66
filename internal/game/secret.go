package game

// alphanumeric is the candidate alphabet secret letters are sampled from.
const alphanumeric = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// sampleAlphanumeric draws one uniformly distributed alphanumeric character.
// The top six bits of a byte index the 62-character table; indices 62 and 63
// are rejected and another byte is drawn.
func sampleAlphanumeric(src ByteSource) byte {
	for {
		if i := src.NextByte() >> 2; int(i) < len(alphanumeric) {
			return alphanumeric[i]
		}
	}
}

// generateSecret collects length characters in 'A'..maxLetter by rejection
// sampling alphanumeric candidates from src, keeping draw order.
func generateSecret(src ByteSource, length int, maxLetter rune) string {
	if length <= 0 {
		return ""
	}
	out := make([]byte, 0, length)
	for len(out) < length {
		c := sampleAlphanumeric(src)
		if c >= 'A' && rune(c) <= maxLetter {
			out = append(out, c)
		}
	}
	return string(out)
}
