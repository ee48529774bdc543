package domain

// Represents one stored wildlife observation.
// A Sighting is built entirely within one submission and is never mutated
// after it has been appended to the backing store. Species and Observations
// hold sanitized text; DateTime is opaque and stored exactly as received.
type Sighting struct {
	Species      string   `json:"species" validate:"required"`
	Location     Location `json:"location"`
	DateTime     DateTime `json:"dateTime" validate:"required"`
	Observations string   `json:"observations"`
}
