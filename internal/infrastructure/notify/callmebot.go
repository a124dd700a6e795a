package notify

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// CallMeBotClient sends WhatsApp text messages through the CallMeBot gateway
type CallMeBotClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewCallMeBotClient creates a new CallMeBotClient
func NewCallMeBotClient(baseURL string, timeout time.Duration) *CallMeBotClient {
	return &CallMeBotClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// SendWhatsApp sends text to phone (digits only, with country code)
func (c *CallMeBotClient) SendWhatsApp(ctx context.Context, phone, apiKey, text string) error {
	q := url.Values{}
	q.Set("phone", phone)
	q.Set("text", text)
	q.Set("apikey", apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/whatsapp.php?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("callmebot: build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("callmebot: %w", err)
	}
	defer resp.Body.Close()

	_, err = readResponse("callmebot", resp)
	return err
}
