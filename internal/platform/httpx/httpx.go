// Package httpx holds the JSON and error plumbing shared by the service
// handlers.
package httpx

import (
	"errors"
	"net/http"
	"strconv"

	jsoniter "github.com/json-iterator/go"

	"libranexus/internal/library"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error       string `json:"error"`
	Description string `json:"error_description,omitempty"`
	ReasonCode  string `json:"reason_code,omitempty"`
	Retryable   bool   `json:"retryable,omitempty"`
}

// StatusFor maps an error onto an HTTP status by kind.
func StatusFor(err error) int {
	kind := library.KindOf(err)
	switch kind {
	case library.KindNotFound:
		return http.StatusNotFound
	case library.KindDuplicateKey:
		return http.StatusConflict
	case library.KindValidation, library.KindSerialization:
		return http.StatusBadRequest
	case library.KindAccessDenied, library.KindNotGranted:
		return http.StatusForbidden
	case library.KindCurrentlyUnavailable:
		if library.IsRetryable(err) {
			return http.StatusServiceUnavailable
		}
		return http.StatusConflict
	case library.KindDatabase:
		if library.IsRetryable(err) {
			return http.StatusServiceUnavailable
		}
	}
	return http.StatusInternalServerError
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// WriteError writes err with its mapped status. Server-side failures do
// not echo their description.
func WriteError(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	resp := ErrorResponse{Error: library.KindOf(err).String()}

	var lerr *library.Error
	if errors.As(err, &lerr) {
		resp.ReasonCode = lerr.ReasonCode
		resp.Retryable = lerr.Retryable
	}
	if status < http.StatusInternalServerError {
		resp.Description = err.Error()
	}
	if resp.Retryable {
		w.Header().Set("Retry-After", "1")
	}
	WriteJSON(w, status, resp)
}

// Decode reads a JSON body into a fresh T. Malformed bodies become
// Serialization errors.
func Decode[T any](r *http.Request) (T, error) {
	var v T
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		return v, library.Serialization(err, "malformed request body")
	}
	return v, nil
}

// PageParams extracts cursor paging from the query string and returns the
// remaining parameters as a predicate.
func PageParams(r *http.Request) (predicate map[string]string, page string, pageSize int) {
	predicate = map[string]string{}
	for key, values := range r.URL.Query() {
		switch key {
		case "page":
			page = values[0]
		case "page_size":
			pageSize, _ = strconv.Atoi(values[0])
		default:
			predicate[key] = values[0]
		}
	}
	return predicate, page, pageSize
}
