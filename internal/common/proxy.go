package common

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"
)

var messages = map[int]string{
	http.StatusOK:                   "OK",
	http.StatusBadRequest:           "Bad request",
	http.StatusUnauthorized:         "Unauthorized",
	http.StatusForbidden:            "Forbidden",
	http.StatusNotFound:             "Data not found",
	http.StatusMethodNotAllowed:     "Method not allowed",
	http.StatusUnsupportedMediaType: "Unsupported media type",
	http.StatusTooManyRequests:      "Rate limit exceeded",
	http.StatusInternalServerError:  "Internal server error",
	http.StatusBadGateway:           "Bad gateway",
	http.StatusServiceUnavailable:   "Service unavailable",
	http.StatusGatewayTimeout:       "Gateway timeout",
}

// StatusError is returned when the server answered with anything but 200.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	message, ok := messages[e.Code]
	if !ok {
		message = "Status code not understood"
	}
	return fmt.Sprintf("%s: %d %s", e.URL, e.Code, message)
}

// Proxy performs GET requests through a rate limiter.
type Proxy struct {
	header      map[string]string
	client      *http.Client
	rateLimiter *RateLimiter
}

// NewProxy uses client for the requests, or http.DefaultClient if nil.
func NewProxy(client *http.Client, header map[string]string, rateLimiter *RateLimiter) *Proxy {
	if client == nil {
		client = http.DefaultClient
	}
	return &Proxy{header: header, client: client, rateLimiter: rateLimiter}
}

// Make a request to the provided url, indicating if it is vital.
// The request will be performed depending on the status of the rate limiter
func (proxy *Proxy) Request(ctx context.Context, url string, vital bool) ([]byte, error) {

	// ask for permission to execute the request
	// and wait if necessary
	if proxy.rateLimiter != nil {
		if err := proxy.rateLimiter.Wait(ctx, vital); err != nil {
			return nil, err
		}
	}

	// Create the request and add the header
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request for url %s: %w", url, err)
	}
	for key, value := range proxy.header {
		request.Header.Set(key, value)
	}

	// Perform the request
	res, err := proxy.client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("perform request: %w", err)
	}
	defer res.Body.Close()
	log.Debug().Str("url", url).Int("status", res.StatusCode).Msg("Request done")

	switch res.StatusCode {
	case http.StatusOK:
		// Read the response
		stream, err := io.ReadAll(res.Body)
		if err != nil {
			return nil, fmt.Errorf("read response for url %s: %w", url, err)
		}
		return stream, nil
	case http.StatusTooManyRequests:
		if proxy.rateLimiter != nil {
			proxy.rateLimiter.ReceivedRateLimit()
		}
	}
	return nil, &StatusError{URL: url, Code: res.StatusCode}
}
