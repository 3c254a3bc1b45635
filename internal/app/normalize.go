package app

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
	"time"

	"abroads_reviews/internal/domain"
)

/********** per-provider normalization **********/

// Normalize maps one raw provider record to the canonical Review. It returns
// nil for records that must be dropped: empty/whitespace-only text, or a
// rating value that is present but not numeric. It never panics on
// type-correct input.
func Normalize(raw map[string]any, src domain.Source) *domain.Review {
	switch src {
	case domain.SourceTripAdvisor:
		return normalizeTripAdvisor(raw)
	case domain.SourceGoogle:
		return normalizeGoogle(raw)
	}
	return nil
}

func normalizeTripAdvisor(raw map[string]any) *domain.Review {
	text := strings.TrimSpace(lookupStr(raw, "text"))
	if text == "" {
		return nil
	}
	rating, ok := ratingOf(raw)
	if !ok {
		return nil
	}

	author := lookupStr(raw, "user.username")
	if author == "" {
		author = "TripAdvisor User"
	}

	return &domain.Review{
		ID:        "ta_" + idToken(raw, "id", text),
		Author:    author,
		PhotoURL:  lookupStr(raw, "user.avatar.small"),
		Rating:    rating,
		Text:      text,
		Timestamp: ParseTripAdvisorDate(lookupStr(raw, "published_date"), time.Now()),
		Source:    domain.SourceTripAdvisor,
		Language:  langOf(raw),
		Title:     lookupStr(raw, "title"),
	}
}

func normalizeGoogle(raw map[string]any) *domain.Review {
	text := strings.TrimSpace(lookupStr(raw, "text"))
	if text == "" {
		return nil
	}
	rating, ok := ratingOf(raw)
	if !ok {
		return nil
	}

	author := lookupStr(raw, "author_name")
	if author == "" || author == "A Google User" {
		author = "Google User"
	}

	ts := time.Now().Unix()
	if f, ok := floatOf(raw, "time"); ok {
		ts = int64(f)
	}

	return &domain.Review{
		ID:        "google_" + idToken(raw, "time", text),
		Author:    author,
		PhotoURL:  lookupStr(raw, "profile_photo_url"),
		Rating:    rating,
		Text:      text,
		Timestamp: ts,
		Source:    domain.SourceGoogle,
		Language:  langOf(raw),
	}
}

// taDateFormats are tried in order; the Content API usually sends ISO.
var taDateFormats = []string{
	"2006-01-02T15:04:05.000000Z",
	"2006-01-02T15:04:05Z",
	"2006-01-02",
}

// ParseTripAdvisorDate converts a Content API published_date to epoch
// seconds. Unknown formats fall back to now rather than failing the record.
func ParseTripAdvisorDate(s string, now time.Time) int64 {
	if s == "" {
		return now.Unix()
	}
	for _, f := range taDateFormats {
		if t, err := time.Parse(f, s); err == nil {
			return t.Unix()
		}
	}
	return now.Unix()
}

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// lookupStr returns string at path or "".
func lookupStr(m map[string]any, path string) string {
	if v := lookupAny(m, path); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// floatOf: number at path (float64/int/string like "4,0").
func floatOf(m map[string]any, path string) (float64, bool) {
	switch v := lookupAny(m, path).(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
		if s == "" {
			return 0, false
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

// ratingOf coerces the record's rating into [1,5]. An absent rating defaults
// to 5; a present but non-numeric rating drops the record.
func ratingOf(m map[string]any) (int, bool) {
	if lookupAny(m, "rating") == nil {
		return 5, true
	}
	f, ok := floatOf(m, "rating")
	if !ok {
		return 0, false
	}
	r := int(f)
	if r < 1 {
		r = 1
	}
	if r > 5 {
		r = 5
	}
	return r, true
}

func langOf(m map[string]any) string {
	if l := lookupStr(m, "language"); l != "" {
		return l
	}
	return "en"
}

// idToken renders the provider-native id at path, or hashes the text when
// the provider omits one, so ids stay unique within a fetch cycle.
func idToken(m map[string]any, path, text string) string {
	switch v := lookupAny(m, path).(type) {
	case string:
		if v != "" {
			return v
		}
	case float64:
		return strconv.FormatInt(int64(v), 10)
	}
	h := fnv.New32a()
	h.Write([]byte(text))
	return fmt.Sprintf("h%08x", h.Sum32())
}
