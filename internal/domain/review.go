package domain

// Source identifies which upstream a review came from.
type Source string

const (
	SourceTripAdvisor Source = "tripadvisor"
	SourceGoogle      Source = "google"
	SourceFallback    Source = "fallback"
)

// Review is the canonical, provider-agnostic record. Immutable once built;
// a fresh set is produced on every cache-miss fetch cycle.
type Review struct {
	ID        string // provider-namespaced, e.g. "ta_123", "google_1699999999"
	Author    string
	PhotoURL  string
	Rating    int // clamped to [1,5]
	Text      string
	Timestamp int64 // epoch seconds; sole sort key
	Source    Source
	Language  string
	Title     string
}
