package dto

import "sighting-intake-service/internal/domain"

type LocationResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type SightingResponse struct {
	Species      string           `json:"species"`
	Location     LocationResponse `json:"location"`
	DateTime     domain.DateTime  `json:"dateTime"`
	Observations string           `json:"observations"`
}

func NewSightingResponse(s domain.Sighting) SightingResponse {
	return SightingResponse{
		Species: s.Species,
		Location: LocationResponse{
			Latitude:  s.Location.Latitude,
			Longitude: s.Location.Longitude,
		},
		DateTime:     s.DateTime,
		Observations: s.Observations,
	}
}

type SubmitSightingResponse struct {
	Message  string           `json:"message"`
	Sighting SightingResponse `json:"sighting"`
}

type ListSightingsResponse struct {
	Sightings []SightingResponse `json:"sightings"`
}

// Body of every non-2xx response.
type MessageResponse struct {
	Message string `json:"message"`
}
