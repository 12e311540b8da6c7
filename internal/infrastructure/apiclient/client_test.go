package apiclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/a38062an/Atomic-Resource-Broker/internal/domain/booking"
)

func newTestClient(url string, retries int) *Client {
	return New("hotel", url, "secret", retries, 0, nil)
}

func TestListAvailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/reservation/available" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("Authorization = %q", got)
		}
		w.Write([]byte(`[{"id": 3}, {"id": 7}, {"id": 9}]`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 1)
	got, err := c.ListAvailable(context.Background())
	if err != nil {
		t.Fatalf("ListAvailable: %v", err)
	}
	if len(got) != 3 || !got.Has(3) || !got.Has(7) || !got.Has(9) {
		t.Errorf("got %v, want {3,7,9}", got.Sorted())
	}
}

func TestReserve_UsesPostWithSlotPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/reservation/7" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		w.Write([]byte(`{"message": "slot reserved"}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 1)
	receipt, err := c.Reserve(context.Background(), 7)
	if err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	if receipt.Message != "slot reserved" {
		t.Errorf("receipt = %+v", receipt)
	}
}

func TestRelease_UsesDelete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/reservation/7" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		w.Write([]byte(`{"message": "slot released"}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 1)
	if _, err := c.Release(context.Background(), 7); err != nil {
		t.Fatalf("Release: %v", err)
	}
}

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		status int
		kind   booking.ErrorKind
	}{
		{http.StatusBadRequest, booking.KindBadRequest},
		{http.StatusUnauthorized, booking.KindInvalidToken},
		{http.StatusForbidden, booking.KindBadSlot},
		{http.StatusNotFound, booking.KindNotProcessed},
		{http.StatusConflict, booking.KindSlotUnavailable},
		{http.StatusUnavailableForLegalReasons, booking.KindReservationLimit},
		{http.StatusTeapot, booking.KindUnexpectedStatus},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(`{"message": "nope"}`))
			}))
			defer srv.Close()

			c := newTestClient(srv.URL, 3)
			_, err := c.Reserve(context.Background(), 5)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := booking.KindOf(err); got != tt.kind {
				t.Errorf("kind = %v, want %v", got, tt.kind)
			}
		})
	}
}

func TestErrorPrefersJSONMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"message": "slot is already taken"}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 1)
	_, err := c.Reserve(context.Background(), 5)
	var ae *booking.APIError
	if !errors.As(err, &ae) {
		t.Fatalf("err = %v, want APIError", err)
	}
	if ae.Message != "slot is already taken" {
		t.Errorf("Message = %q", ae.Message)
	}
}

func TestRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 3)
	if _, err := c.ListHeld(context.Background()); err != nil {
		t.Fatalf("ListHeld after retries: %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
}

func TestExhaustedRetriesReportTransportFailure(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 3)
	_, err := c.ListHeld(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if got := booking.KindOf(err); got != booking.KindTransport {
		t.Errorf("kind = %v, want transport", got)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
}

func TestClientErrorIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusConflict)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 3)
	_, err := c.Reserve(context.Background(), 5)
	if !booking.IsSlotUnavailable(err) {
		t.Fatalf("err = %v, want slot unavailable", err)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1 (4xx will not change on retry)", calls.Load())
	}
}
