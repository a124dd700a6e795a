package storefront

import (
	"fmt"
	"strings"

	"github.com/oscarpiresjunior/pedidos-print-foods/internal/domain/shared"
)

// Channel is a notification transport
type Channel string

const (
	ChannelWhatsApp Channel = "whatsapp"
	ChannelEmail    Channel = "email"
)

// Audience is who a notification is for
type Audience string

const (
	AudienceAdmin    Audience = "admin"
	AudienceCustomer Audience = "customer"
)

// OutcomeStatus is the result of one send attempt
type OutcomeStatus string

const (
	OutcomeSent                 OutcomeStatus = "sent"
	OutcomeSkippedNotConfigured OutcomeStatus = "skipped_not_configured"
	OutcomeFailed               OutcomeStatus = "failed"
)

// NotificationOutcome records one send attempt
type NotificationOutcome struct {
	Channel   Channel       `json:"channel"`
	Audience  Audience      `json:"audience"`
	Recipient string        `json:"recipient,omitempty"`
	Status    OutcomeStatus `json:"status"`
	Reason    string        `json:"reason,omitempty"`
}

// Sent builds a successful outcome
func Sent(channel Channel, audience Audience, recipient string) NotificationOutcome {
	return NotificationOutcome{Channel: channel, Audience: audience, Recipient: recipient, Status: OutcomeSent}
}

// SkippedNotConfigured builds an outcome for a channel that lacks configuration
func SkippedNotConfigured(channel Channel, audience Audience, reason string) NotificationOutcome {
	return NotificationOutcome{Channel: channel, Audience: audience, Status: OutcomeSkippedNotConfigured, Reason: reason}
}

// Failed builds an outcome for an attempt that errored
func Failed(channel Channel, audience Audience, recipient string, err error) NotificationOutcome {
	reason := "unknown error"
	if err != nil {
		reason = err.Error()
	}
	return NotificationOutcome{Channel: channel, Audience: audience, Recipient: recipient, Status: OutcomeFailed, Reason: reason}
}

// DispatchReport collects the outcomes of one order's notifications, admin
// attempts first.
type DispatchReport struct {
	Outcomes []NotificationOutcome `json:"outcomes"`
}

// AdminSent reports whether at least one admin attempt succeeded
func (r DispatchReport) AdminSent() bool {
	for _, o := range r.Outcomes {
		if o.Audience == AudienceAdmin && o.Status == OutcomeSent {
			return true
		}
	}
	return false
}

// Failures returns the failed attempts
func (r DispatchReport) Failures() []NotificationOutcome {
	var failed []NotificationOutcome
	for _, o := range r.Outcomes {
		if o.Status == OutcomeFailed {
			failed = append(failed, o)
		}
	}
	return failed
}

// Summary aggregates failure reasons into one banner message
func (r DispatchReport) Summary() string {
	failed := r.Failures()
	if len(failed) == 0 {
		return ""
	}
	msgs := make([]string, 0, len(failed))
	for _, o := range failed {
		msgs = append(msgs, fmt.Sprintf("%s/%s: %s", o.Audience, o.Channel, o.Reason))
	}
	return strings.Join(msgs, "; ")
}

// ErrAdminNotNotified is returned under PolicyRequireAdminChannel when no
// admin attempt succeeded.
var ErrAdminNotNotified = shared.NewDomainError("ADMIN_NOT_NOTIFIED",
	"Não foi possível notificar a loja. Tente novamente ou entre em contato pelo WhatsApp.")

// Policy decides whether a dispatch report makes the submission succeed
type Policy string

const (
	// PolicyBestEffort places the order whatever the notifications did
	PolicyBestEffort Policy = "best_effort"
	// PolicyRequireAdminChannel needs at least one admin notification sent
	PolicyRequireAdminChannel Policy = "require_admin_channel"
)

// ParsePolicy maps a config value to a Policy, defaulting to best effort
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyBestEffort:
		return PolicyBestEffort, nil
	case PolicyRequireAdminChannel:
		return PolicyRequireAdminChannel, nil
	default:
		return "", fmt.Errorf("unknown notification policy %q", s)
	}
}

// Evaluate applies the policy to a report
func (p Policy) Evaluate(report DispatchReport) error {
	if p == PolicyRequireAdminChannel && !report.AdminSent() {
		if summary := report.Summary(); summary != "" {
			return fmt.Errorf("%w (%s)", ErrAdminNotNotified, summary)
		}
		return ErrAdminNotNotified
	}
	return nil
}
