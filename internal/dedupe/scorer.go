package dedupe

import (
	"unicode/utf8"

	"github.com/mel-koku/koku-locations/internal/location"
)

// ScoreWeights are the additive completeness weights used to rank records
// within a duplicate group. A non-empty place_id dominates everything else
// combined: it means the record was verified against the places API.
type ScoreWeights struct {
	PlaceID     int // 100
	Coordinates int // 50
	Description int // 30, only when longer than MinDescriptionLen
	Rating      int // 20, only when > 0
	Image       int // 10
	City        int // 5
	Category    int // 5
}

// MinDescriptionLen is the description length above which the description
// weight applies.
const MinDescriptionLen = 10

// DefaultScoreWeights returns the standard completeness weights.
func DefaultScoreWeights() *ScoreWeights {
	return &ScoreWeights{
		PlaceID:     100,
		Coordinates: 50,
		Description: 30,
		Rating:      20,
		Image:       10,
		City:        5,
		Category:    5,
	}
}

// Scorer ranks records by data completeness.
type Scorer struct {
	weights *ScoreWeights
}

// NewScorer creates a scorer with the default weights.
func NewScorer() *Scorer {
	return &Scorer{weights: DefaultScoreWeights()}
}

// NewScorerWithWeights creates a scorer with custom weights.
func NewScorerWithWeights(weights *ScoreWeights) *Scorer {
	return &Scorer{weights: weights}
}

// Score computes the completeness score for a single record. Scoring is
// strictly additive and looks at one record only, so adding a quality signal
// to one record never changes another record's score.
func (s *Scorer) Score(rec location.Record) int {
	score := 0

	if rec.HasPlaceID() {
		score += s.weights.PlaceID
	}
	if rec.HasCoordinates() {
		score += s.weights.Coordinates
	}
	if utf8.RuneCountInString(rec.DescriptionValue()) > MinDescriptionLen {
		score += s.weights.Description
	}
	if rec.RatingValue() > 0 {
		score += s.weights.Rating
	}
	if rec.ImageValue() != "" {
		score += s.weights.Image
	}
	if rec.CityValue() != "" {
		score += s.weights.City
	}
	if rec.CategoryValue() != "" {
		score += s.weights.Category
	}

	return score
}
