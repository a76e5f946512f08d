package format

import (
	"encoding/json"
	"fmt"
	"strings"
)

var listStripper = strings.NewReplacer("[", "", "]", "", "'", "", `"`, "")

func isListDelim(r rune) bool {
	switch r {
	case ',', '•', ';', '|', '\n', '\r', '\t':
		return true
	}
	return false
}

// ParseList turns an amenity/description field into tokens. It accepts
// slices, JSON arrays, Python-style lists ("['Wifi', 'Pool']") and plain
// delimited text; malformed brackets are stripped rather than rejected.
func ParseList(v any) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case []string:
		return cleanTokens(t)
	case []any:
		raw := make([]string, 0, len(t))
		for _, it := range t {
			switch x := it.(type) {
			case nil:
			case string:
				raw = append(raw, x)
			default:
				raw = append(raw, fmt.Sprint(x))
			}
		}
		return cleanTokens(raw)
	case string:
		return parseListString(t)
	default:
		return parseListString(fmt.Sprint(t))
	}
}

func parseListString(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if strings.HasPrefix(s, "[") && json.Valid([]byte(s)) {
		var arr []any
		if err := json.Unmarshal([]byte(s), &arr); err == nil {
			return ParseList(arr)
		}
	}
	return cleanTokens(strings.FieldsFunc(listStripper.Replace(s), isListDelim))
}

func cleanTokens(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	return out
}
