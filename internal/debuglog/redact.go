package debuglog

import "strings"

const (
	maxBodyLen     = 4000
	maxResponseLen = 8000
)

// sensitiveKeys are compared case-insensitively against map keys.
var sensitiveKeys = map[string]struct{}{
	"password":      {},
	"token":         {},
	"accesstoken":   {},
	"authorization": {},
}

// Redact deep-copies a JSON-ish value (maps, slices, scalars) replacing the
// value of any sensitive key with "<redacted>". The input is not modified.
func Redact(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, inner := range val {
			if _, sensitive := sensitiveKeys[strings.ToLower(k)]; sensitive {
				out[k] = "<redacted>"
				continue
			}
			out[k] = Redact(inner)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, inner := range val {
			out[i] = Redact(inner)
		}
		return out
	default:
		return v
	}
}

// TruncateBody limits a request body summary to a loggable size.
func TruncateBody(s string) string {
	return truncate(s, maxBodyLen)
}

// TruncateResponse limits a response text summary to a loggable size.
func TruncateResponse(s string) string {
	return truncate(s, maxResponseLen)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "… (truncated)"
}
