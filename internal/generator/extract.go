package generator

// ExtractJSON returns the first balanced, brace-delimited JSON object in raw.
// Models wrap their output in prose or markdown fences often enough that
// unmarshalling the raw response directly is a losing game; scanning for the
// object is the reliable path. Braces inside JSON strings are skipped.
func ExtractJSON(raw string) (string, bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(raw); i++ {
		c := raw[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			if depth > 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 {
				return raw[start : i+1], true
			}
		}
	}

	return "", false
}
