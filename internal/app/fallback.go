package app

import (
	"time"

	"abroads_reviews/internal/domain"
)

// fallbackSeed is the curated dataset served when no upstream provider
// yields any review. Timestamps are derived from now at call time (one per
// day back) so the relative-time labels always read fresh.
var fallbackSeed = []struct {
	id, author, text string
}{
	{
		"fallback_1", "Marco R.",
		"We had an absolutely delightful time on our tour of Lake Como and into Switzerland up to Lugano. It was especially nice to not be on a large bus and to have personal attention from our guide.",
	},
	{
		"fallback_2", "Sarah J.",
		"Stefano was great, friendly, easy to converse with & very informative! With the small group, Stefano gave us options to stay longer or shorter in each location.",
	},
	{
		"fallback_3", "Monica K.",
		"We had a wonderful time on this tour. Our guide Monica showed our small group so many local places we really got to enjoy each location.",
	},
	{
		"fallback_4", "Travel Enthusiast",
		"Great excursion to Como and Lugano! Very well planned, small group, pleasant journeys by Swiss train and boat, very good food for lunch.",
	},
	{
		"fallback_5", "Happy Traveler",
		"The Lake Como Tour (Milan -> Varenna -> Bellagio -> Bellano -> Milan) was possibly the best part of my trip to Italy. Straight off, amazing experience!",
	},
}

func fallbackReviews(now time.Time) []domain.Review {
	out := make([]domain.Review, 0, len(fallbackSeed))
	for i, s := range fallbackSeed {
		out = append(out, domain.Review{
			ID:        s.id,
			Author:    s.author,
			Rating:    5,
			Text:      s.text,
			Timestamp: now.AddDate(0, 0, -(i + 1)).Unix(),
			Source:    domain.SourceFallback,
			Language:  "en",
		})
	}
	return out
}
