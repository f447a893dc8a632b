package location

import "strings"

// Coordinates is a WGS84 point.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Record is a single point-of-interest row from the locations table.
// Optional columns are pointers; a nil pointer and an empty string both mean
// "absent" and must only be inspected through the accessor methods below.
type Record struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	City             *string      `json:"city,omitempty"`
	Prefecture       *string      `json:"prefecture,omitempty"`
	Region           *string      `json:"region,omitempty"`
	Category         *string      `json:"category,omitempty"`
	Coordinates      *Coordinates `json:"coordinates,omitempty"`
	PlaceID          *string      `json:"place_id,omitempty"`
	Description      *string      `json:"description,omitempty"`
	ShortDescription *string      `json:"short_description,omitempty"`
	Rating           *float64     `json:"rating,omitempty"`
	Image            *string      `json:"image,omitempty"`

	// CityOriginal holds the pre-migration city value written by the city
	// consolidation job. Used only by the corruption auditor for rollback.
	CityOriginal *string `json:"city_original,omitempty"`
}

func strValue(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}

// CityValue returns the trimmed city, or "" when absent.
func (r *Record) CityValue() string { return strValue(r.City) }

// RegionValue returns the trimmed region, or "" when absent.
func (r *Record) RegionValue() string { return strValue(r.Region) }

// CategoryValue returns the trimmed category, or "" when absent.
func (r *Record) CategoryValue() string { return strValue(r.Category) }

// PlaceIDValue returns the trimmed place_id, or "" when absent.
func (r *Record) PlaceIDValue() string { return strValue(r.PlaceID) }

// CityOriginalValue returns the trimmed city backup, or "" when absent.
func (r *Record) CityOriginalValue() string { return strValue(r.CityOriginal) }

// ImageValue returns the trimmed image reference, or "" when absent.
func (r *Record) ImageValue() string { return strValue(r.Image) }

// DescriptionValue returns the description, or "" when absent.
func (r *Record) DescriptionValue() string {
	if r.Description == nil {
		return ""
	}
	return *r.Description
}

// HasPlaceID reports whether the record carries an externally verified
// place_id. Presence is the strongest trust signal in duplicate scoring.
func (r *Record) HasPlaceID() bool { return r.PlaceIDValue() != "" }

// HasCoordinates reports whether the record carries a lat/lng pair.
func (r *Record) HasCoordinates() bool { return r.Coordinates != nil }

// RatingValue returns the rating, or 0 when absent.
func (r *Record) RatingValue() float64 {
	if r.Rating == nil {
		return 0
	}
	return *r.Rating
}
