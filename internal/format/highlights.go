package format

import (
	"strings"
	"unicode/utf8"

	ac "github.com/petar-dambovaliev/aho-corasick"

	"hotel_finder/internal/domain"
	"hotel_finder/internal/textnorm"
)

type highlightRule struct {
	label    string
	keywords []string // already normalized (see textnorm.Normalize)
}

// Order matters: earlier rules win when more than MaxHighlights apply.
var highlightRules = []highlightRule{
	{"Wi-Fi miễn phí", []string{"wifi", "wi fi", "internet", "wlan"}},
	{"Hồ bơi", []string{"pool", "swimming", "ho boi", "be boi"}},
	{"Bữa sáng", []string{"breakfast", "bua sang", "an sang"}},
	{"Chỗ đậu xe", []string{"parking", "bai do xe", "cho dau xe", "giu xe", "do xe"}},
	{"Phòng gym", []string{"gym", "fitness", "phong tap", "the hinh"}},
	{"Spa", []string{"spa", "massage", "sauna", "xong hoi"}},
	{"Gần sân bay", []string{"airport", "san bay"}},
	{"Phù hợp gia đình", []string{"family", "families", "kids", "children", "gia dinh", "tre em"}},
	{"Vị trí trung tâm", []string{"central", "downtown", "city center", "city centre", "trung tam"}},
}

// Aho-Corasick matcher over every rule keyword, whole words only.
var (
	highlightBuilder = ac.NewAhoCorasickBuilder(ac.Opts{
		AsciiCaseInsensitive: true,
		MatchOnlyWholeWords:  true,
		MatchKind:            ac.LeftMostLongestMatch,
	})
	highlightMatcher = highlightBuilder.Build(highlightPatterns())

	keywordRule = indexHighlightKeywords()
)

func highlightPatterns() []string {
	var out []string
	for _, r := range highlightRules {
		out = append(out, r.keywords...)
	}
	return out
}

func indexHighlightKeywords() map[string]int {
	m := make(map[string]int)
	for i, r := range highlightRules {
		for _, kw := range r.keywords {
			m[kw] = i
		}
	}
	return m
}

// Highlights scans amenities and description for known features and returns
// up to MaxHighlights labels, topping up with raw amenity names.
func Highlights(h domain.HotelRecord) []string {
	text := textnorm.Normalize(strings.Join(h.Amenities, " ") + " " + h.Description)

	hit := make([]bool, len(highlightRules))
	if text != "" {
		for _, m := range highlightMatcher.FindAll(text) {
			if i, ok := keywordRule[text[m.Start():m.End()]]; ok {
				hit[i] = true
			}
		}
	}

	out := make([]string, 0, MaxHighlights)
	seen := map[string]struct{}{}
	for i, r := range highlightRules {
		if len(out) == MaxHighlights {
			return out
		}
		if hit[i] {
			out = append(out, r.label)
			seen[strings.ToLower(r.label)] = struct{}{}
		}
	}

	for _, a := range h.Amenities {
		if len(out) == MaxHighlights {
			break
		}
		tok := strings.TrimSpace(a)
		n := utf8.RuneCountInString(tok)
		if n < HighlightMinRunes || n > HighlightMaxRunes {
			continue
		}
		key := strings.ToLower(tok)
		if _, dup := seen[key]; dup || coveredByRule(tok, hit) {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, tok)
	}
	return out
}

// coveredByRule reports whether tok names a feature already shown as a label.
func coveredByRule(tok string, hit []bool) bool {
	norm := textnorm.Normalize(tok)
	if norm == "" {
		return false
	}
	for _, m := range highlightMatcher.FindAll(norm) {
		if i, ok := keywordRule[norm[m.Start():m.End()]]; ok && hit[i] {
			return true
		}
	}
	return false
}
