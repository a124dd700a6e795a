package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Email is one templated EmailJS send
type Email struct {
	ServiceID  string
	TemplateID string
	PublicKey  string
	Params     map[string]string
}

type emailJSRequest struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	AccessToken    string            `json:"accessToken,omitempty"`
	TemplateParams map[string]string `json:"template_params"`
}

// EmailJSClient sends templated email through the EmailJS REST API
type EmailJSClient struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
}

// NewEmailJSClient creates a new EmailJSClient. accessToken is the optional
// private key required when the EmailJS account blocks public API calls.
func NewEmailJSClient(baseURL, accessToken string, timeout time.Duration) *EmailJSClient {
	return &EmailJSClient{
		baseURL:     strings.TrimRight(baseURL, "/"),
		accessToken: accessToken,
		httpClient:  &http.Client{Timeout: timeout},
	}
}

// SendEmail posts the template send request
func (c *EmailJSClient) SendEmail(ctx context.Context, email Email) error {
	body, err := json.Marshal(emailJSRequest{
		ServiceID:      email.ServiceID,
		TemplateID:     email.TemplateID,
		UserID:         email.PublicKey,
		AccessToken:    c.accessToken,
		TemplateParams: email.Params,
	})
	if err != nil {
		return fmt.Errorf("emailjs: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1.0/email/send", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("emailjs: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("emailjs: %w", err)
	}
	defer resp.Body.Close()

	_, err = readResponse("emailjs", resp)
	return err
}
