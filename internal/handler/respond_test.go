package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/yourorg/hackconnect/internal/domain"
)

func decodeErrorResponse(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	return resp
}

func TestWriteErrorOrphanBeatsWrappedSentinel(t *testing.T) {
	// The orphan's cause may itself be a mapped sentinel (a misconfigured
	// collection id surfaces the profile write as not-found). The partial
	// registration state must still win.
	causes := []error{
		fmt.Errorf("create profile: %w", domain.ErrNotFound),
		fmt.Errorf("create profile: %w", domain.ErrConflict),
		errors.New("document store down"),
	}

	for _, cause := range causes {
		rec := httptest.NewRecorder()
		writeError(rec, slog.Default(), &domain.OrphanedIdentityError{
			AccountID: "acc-1",
			Err:       cause,
		})

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("cause %v: expected 500, got %d", cause, rec.Code)
		}
		if resp := decodeErrorResponse(t, rec); resp.Code != "registration_incomplete" {
			t.Errorf("cause %v: expected registration_incomplete, got %q", cause, resp.Code)
		}
	}
}

func TestWriteErrorSentinelMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{&domain.ValidationError{Msg: "name required"}, http.StatusBadRequest},
		{domain.ErrNotMember, http.StatusBadRequest},
		{domain.ErrConflict, http.StatusBadRequest},
		{domain.ErrUnauthenticated, http.StatusUnauthorized},
		{domain.ErrForbidden, http.StatusForbidden},
		{domain.ErrNotFound, http.StatusNotFound},
		{&domain.UpstreamError{Op: "documents.get", Err: errors.New("boom")}, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		writeError(rec, slog.Default(), fmt.Errorf("wrapped: %w", tc.err))
		if rec.Code != tc.status {
			t.Errorf("error %v: expected %d, got %d", tc.err, tc.status, rec.Code)
		}
	}
}
