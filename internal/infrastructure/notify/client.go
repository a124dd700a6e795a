// Package notify holds the HTTP clients for the WhatsApp (CallMeBot) and
// email (EmailJS) providers.
package notify

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxResponseSize bounds provider response bodies
const maxResponseSize = 1 << 20

// ErrRejected wraps every non-2xx provider response
var ErrRejected = errors.New("provider rejected the request")

// readResponse returns the body of a 2xx response, or an ErrRejected error
// carrying the provider's message.
func readResponse(provider string, resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%s: read response: %w", provider, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := snippet(body)
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, fmt.Errorf("%w: %s returned %d: %s", ErrRejected, provider, resp.StatusCode, msg)
	}
	return body, nil
}

func snippet(body []byte) string {
	s := strings.Join(strings.Fields(string(body)), " ")
	if len(s) > 300 {
		s = s[:300] + "..."
	}
	return s
}
