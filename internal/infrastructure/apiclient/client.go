// Package apiclient implements booking.Service over the reservation
// HTTP API. It owns transport concerns the coordinator must not see:
// bearer auth, retry on server errors, and mapping of HTTP statuses to
// the typed errors of the booking domain.
package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/a38062an/Atomic-Resource-Broker/internal/domain/booking"
	"github.com/a38062an/Atomic-Resource-Broker/internal/domain/slot"
)

const defaultTimeout = 10 * time.Second

type Client struct {
	hc   *http.Client
	log  *zap.Logger
	name string

	base    string
	token   string
	retries int
	delay   time.Duration
}

// New returns a client for one reservation service. name is the side
// label used in errors and logs ("hotel" or "band"). retries is the
// total number of attempts per request; delay is the pause between
// attempts after a retryable failure.
func New(name, baseURL, token string, retries int, delay time.Duration, log *zap.Logger) *Client {
	if retries < 1 {
		retries = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		hc:      &http.Client{Timeout: defaultTimeout},
		log:     log.Named(name),
		name:    name,
		base:    strings.TrimRight(baseURL, "/"),
		token:   token,
		retries: retries,
		delay:   delay,
	}
}

func (c *Client) Name() string { return c.name }

func (c *Client) ListAvailable(ctx context.Context) (slot.Set, error) {
	body, err := c.do(ctx, http.MethodGet, "/reservation/available")
	if err != nil {
		return nil, err
	}
	return decodeSlots(body)
}

func (c *Client) ListHeld(ctx context.Context) (slot.Set, error) {
	body, err := c.do(ctx, http.MethodGet, "/reservation")
	if err != nil {
		return nil, err
	}
	return decodeSlots(body)
}

func (c *Client) Reserve(ctx context.Context, id slot.ID) (booking.Receipt, error) {
	body, err := c.do(ctx, http.MethodPost, fmt.Sprintf("/reservation/%d", id))
	if err != nil {
		return booking.Receipt{}, err
	}
	return decodeReceipt(body), nil
}

func (c *Client) Release(ctx context.Context, id slot.ID) (booking.Receipt, error) {
	body, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/reservation/%d", id))
	if err != nil {
		return booking.Receipt{}, err
	}
	return decodeReceipt(body), nil
}

// do performs one API request, retrying server-side (5xx) and network
// failures up to the configured attempt budget. Client-side (4xx)
// statuses are mapped to typed errors immediately; they will not
// change on a retry.
func (c *Client) do(ctx context.Context, method, endpoint string) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= c.retries; attempt++ {
		if attempt > 1 && c.delay > 0 {
			select {
			case <-time.After(c.delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		req, err := http.NewRequestWithContext(ctx, method, c.base+endpoint, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+c.token)

		res, err := c.hc.Do(req)
		if err != nil {
			c.log.Warn("request failed",
				zap.String("endpoint", endpoint),
				zap.Int("attempt", attempt),
				zap.Error(err))
			lastErr = err
			continue
		}
		body, err := io.ReadAll(res.Body)
		res.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}

		switch {
		case res.StatusCode >= 200 && res.StatusCode < 300:
			return body, nil
		case res.StatusCode >= 500:
			c.log.Warn("server error",
				zap.String("endpoint", endpoint),
				zap.Int("status", res.StatusCode),
				zap.Int("attempt", attempt))
			lastErr = c.apiError(booking.KindUnexpectedStatus, res.StatusCode, body)
			continue
		default:
			return nil, c.apiError(kindForStatus(res.StatusCode), res.StatusCode, body)
		}
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no attempts made")
	}
	return nil, &booking.APIError{
		Kind:    booking.KindTransport,
		Service: c.name,
		Message: fmt.Sprintf("failed after %d attempts: %v", c.retries, lastErr),
	}
}

func kindForStatus(status int) booking.ErrorKind {
	switch status {
	case http.StatusBadRequest:
		return booking.KindBadRequest
	case http.StatusUnauthorized:
		return booking.KindInvalidToken
	case http.StatusForbidden:
		return booking.KindBadSlot
	case http.StatusNotFound:
		return booking.KindNotProcessed
	case http.StatusConflict:
		return booking.KindSlotUnavailable
	case http.StatusUnavailableForLegalReasons:
		return booking.KindReservationLimit
	default:
		return booking.KindUnexpectedStatus
	}
}

func (c *Client) apiError(kind booking.ErrorKind, status int, body []byte) *booking.APIError {
	return &booking.APIError{
		Kind:    kind,
		Service: c.name,
		Status:  status,
		Message: reason(status, body),
	}
}

// reason prefers the JSON message field over the HTTP status text;
// the services put the useful explanation there.
func reason(status int, body []byte) string {
	var r struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &r); err == nil && r.Message != "" {
		return r.Message
	}
	return http.StatusText(status)
}

func decodeSlots(body []byte) (slot.Set, error) {
	var raw []struct {
		ID int `json:"id"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode slot list: %w", err)
	}
	out := make(slot.Set, len(raw))
	for _, r := range raw {
		out.Add(slot.ID(r.ID))
	}
	return out, nil
}

func decodeReceipt(body []byte) booking.Receipt {
	var r struct {
		Message string `json:"message"`
	}
	// Some responses carry no body; an empty receipt is fine.
	_ = json.Unmarshal(body, &r)
	return booking.Receipt{Message: r.Message}
}
