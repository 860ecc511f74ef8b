package http

import (
	"net/http"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/aukilabs/shatter/geometry"
	"github.com/aukilabs/shatter/models"
	"github.com/aukilabs/shatter/partition"
	"github.com/aukilabs/shatter/worley"
	"github.com/segmentio/encoding/json"
)

const (
	errTypeMethodNotAllowed = "method_not_allowed"

	maxRequestBodySize = 1 << 20
)

// HandleRegions answers POST requests with the partition of the requested
// root.
func HandleRegions(r models.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		var body models.RegionsRequest
		if !decodeRequest(w, req, &body) {
			return
		}

		p, err := r.Resolve(&body)
		if err != nil {
			writeError(w, body.RequestID, err)
			return
		}

		writeJSON(w, http.StatusOK, p.Response())
	}
}

// HandleNoise answers POST requests with the distance field of the
// requested partition.
func HandleNoise(r models.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		var body models.RegionsRequest
		if !decodeRequest(w, req, &body) {
			return
		}

		p, err := r.Resolve(&body)
		if err != nil {
			writeError(w, body.RequestID, err)
			return
		}

		field, err := worley.NewField(p.Root, p.Nodes, p.Cells)
		if err != nil {
			writeError(w, p.RequestID, errors.New("computing noise failed").
				WithType(errors.Type(err)).
				WithTag("request_id", p.RequestID).
				Wrap(err))
			return
		}

		writeJSON(w, http.StatusOK, models.NoiseResponse{
			RequestID: p.RequestID,
			Width:     field.Width,
			Height:    field.Height,
			Max:       field.Max(),
			Values:    field.Values,
		})
	}
}

func decodeRequest(w http.ResponseWriter, req *http.Request, v any) bool {
	if req.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, "", errors.New("method not allowed").
			WithType(errTypeMethodNotAllowed).
			WithTag("method", req.Method))
		return false
	}

	dec := json.NewDecoder(http.MaxBytesReader(w, req.Body, maxRequestBodySize))
	if err := dec.Decode(v); err != nil {
		writeError(w, "", errors.New("decoding request failed").
			WithType(models.ErrTypeBadRequest).
			Wrap(err))
		return false
	}
	return true
}

func statusCode(err error) int {
	switch errors.Type(err) {
	case models.ErrTypeBadRequest,
		geometry.ErrTypeMalformedAABB,
		partition.ErrTypeMalformedNode:
		return http.StatusBadRequest

	case errTypeMethodNotAllowed:
		return http.StatusMethodNotAllowed

	case partition.ErrTypeCapacityExceeded:
		return http.StatusUnprocessableEntity

	case worley.ErrTypeFieldTooLarge:
		return http.StatusRequestEntityTooLarge

	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, requestID string, err error) {
	code := statusCode(err)

	entry := logs.WithTag("request_id", requestID).
		WithTag("status", code)
	if code >= http.StatusInternalServerError {
		entry.Error(err)
	} else {
		entry.Debug(err)
	}

	writeJSON(w, code, models.NewErrorResponse(requestID, err))
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		logs.Warn(errors.New("writing response failed").
			WithTag("status", code).
			Wrap(err))
	}
}
