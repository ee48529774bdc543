package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"

	"sighting-intake-service/internal/domain"
	"sighting-intake-service/internal/logging"
	"sighting-intake-service/internal/platform/metrics"
	"sighting-intake-service/internal/ports"
	"sighting-intake-service/internal/validation"
)

// Submission as decoded from a client, before validation.
type SubmitSightingInput struct {
	Species      string          `json:"species" validate:"required"`
	Location     *LocationInput  `json:"location" validate:"required"`
	DateTime     domain.DateTime `json:"dateTime" validate:"required"`
	Observations string          `json:"observations"`
}

type LocationInput struct {
	Latitude  domain.Coordinate `json:"latitude" validate:"required"`
	Longitude domain.Coordinate `json:"longitude" validate:"required"`
}

// A location that is not a JSON object carries no coordinates, so it fails
// the required check rather than the request decode.
func (l *LocationInput) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] != '{' {
		*l = LocationInput{}
		return nil
	}

	type plain LocationInput
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*l = LocationInput(p)
	return nil
}

// Validate, sanitize and append one sighting.
//
// Presence is checked before coordinates; the first failing rule decides the
// *domain.InputError returned. Storage failures come back wrapped around the
// repository's error kind.
func SubmitSighting(ctx context.Context, in SubmitSightingInput, repo ports.SightingRepository) (domain.Sighting, error) {
	log := logging.Ctx(ctx)
	ev := log.Info().Str("species", in.Species)
	if in.Location != nil {
		ev = ev.Str("latitude", in.Location.Latitude.Text()).
			Str("longitude", in.Location.Longitude.Text())
	}
	ev.Str("dateTime", in.DateTime.String()).
		Str("observations", in.Observations).
		Msg("sighting submitted")

	loc, err := checkSubmission(in)
	if err != nil {
		metrics.RecordSubmission(metrics.OutcomeInvalid)
		log.Warn().Err(err).Msg("sighting rejected")
		return domain.Sighting{}, err
	}

	s := domain.Sighting{
		Species:      domain.EscapeHTMLEntities(in.Species),
		Location:     loc,
		DateTime:     in.DateTime,
		Observations: domain.EscapeHTMLEntities(in.Observations),
	}

	stored, err := repo.Append(ctx, s)
	if err != nil {
		metrics.RecordSubmission(metrics.OutcomeError)
		return domain.Sighting{}, fmt.Errorf("submit sighting: %w", err)
	}

	metrics.RecordSubmission(metrics.OutcomeStored)
	log.Info().Interface("sighting", stored).Msg("new sighting stored")
	return stored, nil
}

func checkSubmission(in SubmitSightingInput) (domain.Location, error) {
	if err := validation.ValidateStruct(in); err != nil {
		var verr *validation.Error
		if errors.As(err, &verr) && verr.Has("required") {
			return domain.Location{}, domain.NewInputError(domain.MsgMissingFields)
		}
		return domain.Location{}, fmt.Errorf("check submission: %w", err)
	}

	lat, latOK := in.Location.Latitude.Float()
	lon, lonOK := in.Location.Longitude.Float()
	if !latOK || !lonOK {
		return domain.Location{}, domain.NewInputError(domain.MsgInvalidCoordinates)
	}

	loc := domain.Location{Latitude: lat, Longitude: lon}
	if err := validation.ValidateStruct(loc); err != nil {
		return domain.Location{}, domain.NewInputError(domain.MsgInvalidCoordinates)
	}
	return loc, nil
}
