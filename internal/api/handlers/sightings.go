package handlers

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"

	"sighting-intake-service/internal/api/dto"
	"sighting-intake-service/internal/api/session"
	"sighting-intake-service/internal/domain"
	"sighting-intake-service/internal/logging"
	"sighting-intake-service/internal/ports"
	"sighting-intake-service/internal/services"
)

const (
	msgSubmitted       = "Sighting submitted successfully"
	msgInvalidBody     = "Invalid request body"
	msgBodyTooLarge    = "Request body too large"
	msgReadFailed      = "Failed to read requests file"
	msgParseFailed     = "Failed to parse requests file"
	msgSaveFailed      = "Failed to save request"
	sessionSubmissions = "submissions"
)

// Form field names for urlencoded submissions.
const (
	formSpecies      = "species"
	formLatitude     = "location[latitude]"
	formLongitude    = "location[longitude]"
	formDateTime     = "dateTime"
	formObservations = "observations"
)

// SightingHandler exposes sighting intake and listing.
type SightingHandler struct {
	Repo ports.SightingRepository
}

func (h *SightingHandler) Submit(w http.ResponseWriter, r *http.Request) {
	in, err := decodeSubmission(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, http.StatusRequestEntityTooLarge, msgBodyTooLarge)
			return
		}
		logging.Ctx(r.Context()).Warn().Err(err).Msg("decode sighting failed")
		writeError(w, r, http.StatusBadRequest, msgInvalidBody)
		return
	}

	stored, err := services.SubmitSighting(r.Context(), in, h.Repo)
	if err != nil {
		status, msg := submissionError(err)
		if status >= http.StatusInternalServerError {
			logging.Ctx(r.Context()).Error().Err(err).Msg("submit sighting failed")
		}
		writeError(w, r, status, msg)
		return
	}

	countSubmission(r)

	res := dto.SubmitSightingResponse{
		Message:  msgSubmitted,
		Sighting: dto.NewSightingResponse(stored),
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *SightingHandler) List(w http.ResponseWriter, r *http.Request) {
	sightings, err := h.Repo.List(r.Context())
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("list sightings failed")
		msg := msgReadFailed
		if errors.Is(err, domain.ErrStorageParse) {
			msg = msgParseFailed
		}
		writeError(w, r, http.StatusInternalServerError, msg)
		return
	}

	res := dto.ListSightingsResponse{
		Sightings: make([]dto.SightingResponse, 0, len(sightings)),
	}
	for _, s := range sightings {
		res.Sightings = append(res.Sightings, dto.NewSightingResponse(s))
	}

	writeJSON(w, r, http.StatusOK, res)
}

// Map an intake error to the status and client message.
func submissionError(err error) (int, string) {
	var inputErr *domain.InputError
	switch {
	case errors.As(err, &inputErr):
		return http.StatusBadRequest, inputErr.Message
	case errors.Is(err, domain.ErrStorageRead):
		return http.StatusInternalServerError, msgReadFailed
	case errors.Is(err, domain.ErrStorageParse):
		return http.StatusInternalServerError, msgParseFailed
	default:
		return http.StatusInternalServerError, msgSaveFailed
	}
}

// decodeSubmission reads a JSON or urlencoded body. Any other content type
// decodes to an empty submission, which then fails the required-field check.
func decodeSubmission(r *http.Request) (services.SubmitSightingInput, error) {
	var in services.SubmitSightingInput

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json":
		body, err := io.ReadAll(r.Body)
		if err != nil {
			return in, err
		}
		if len(body) == 0 {
			return in, nil
		}
		if err := json.Unmarshal(body, &in); err != nil {
			return in, err
		}
		return in, nil

	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return in, err
		}
		return formSubmission(r), nil
	}

	return in, nil
}

func formSubmission(r *http.Request) services.SubmitSightingInput {
	in := services.SubmitSightingInput{
		Species:      r.PostForm.Get(formSpecies),
		DateTime:     domain.DateTimeFromString(r.PostForm.Get(formDateTime)),
		Observations: r.PostForm.Get(formObservations),
	}

	_, hasLat := r.PostForm[formLatitude]
	_, hasLon := r.PostForm[formLongitude]
	if hasLat || hasLon {
		in.Location = &services.LocationInput{}
		if hasLat {
			in.Location.Latitude = domain.CoordinateFromString(r.PostForm.Get(formLatitude))
		}
		if hasLon {
			in.Location.Longitude = domain.CoordinateFromString(r.PostForm.Get(formLongitude))
		}
	}
	return in
}

// countSubmission tracks how many sightings this client has submitted.
func countSubmission(r *http.Request) {
	s := session.FromContext(r.Context())
	n, _ := strconv.Atoi(s.Get(sessionSubmissions))
	s.Set(sessionSubmissions, strconv.Itoa(n+1))
}
