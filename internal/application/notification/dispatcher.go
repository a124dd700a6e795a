// Package notification sends the order notifications: the admin chat and
// email alerts and the customer confirmation email.
package notification

import (
	"context"
	"errors"
	"time"

	"github.com/oscarpiresjunior/pedidos-print-foods/internal/domain/storefront"
	"github.com/oscarpiresjunior/pedidos-print-foods/internal/infrastructure/notify"
	"github.com/oscarpiresjunior/pedidos-print-foods/internal/infrastructure/telemetry"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// WhatsAppSender delivers a chat message through the CallMeBot relay
type WhatsAppSender interface {
	SendWhatsApp(ctx context.Context, phone, apiKey, text string) error
}

// EmailSender delivers a templated email
type EmailSender interface {
	SendEmail(ctx context.Context, email notify.Email) error
}

// Dispatcher makes exactly one attempt per channel and recipient. It never
// retries.
type Dispatcher struct {
	whatsapp WhatsAppSender
	email    EmailSender
	metrics  *telemetry.OrderMetrics
	logger   *zap.Logger
}

// NewDispatcher creates a new Dispatcher. metrics may be nil.
func NewDispatcher(whatsapp WhatsAppSender, email EmailSender, metrics *telemetry.OrderMetrics, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		whatsapp: whatsapp,
		email:    email,
		metrics:  metrics,
		logger:   logger,
	}
}

type attempt func(ctx context.Context) storefront.NotificationOutcome

// Dispatch notifies the store about an order, then the customer. Admin
// attempts run concurrently and one failing attempt never cancels another.
// Outcomes list admin email, admin WhatsApp numbers, then customer email.
func (d *Dispatcher) Dispatch(ctx context.Context, settings storefront.AdminSettings, msg OrderMessage) storefront.DispatchReport {
	start := time.Now()

	admin := []attempt{d.adminEmail(settings, msg)}
	admin = append(admin, d.adminWhatsApp(settings, WhatsAppText(msg))...)

	outcomes := d.runConcurrently(ctx, admin)
	outcomes = append(outcomes, d.customerEmail(settings, msg)(ctx))

	report := storefront.DispatchReport{Outcomes: outcomes}
	d.record(ctx, report, time.Since(start))

	fields := []zap.Field{
		zap.String("order_id", msg.Order.ID.String()),
		zap.Bool("admin_notified", report.AdminSent()),
		zap.Duration("duration", time.Since(start)),
	}
	if summary := report.Summary(); summary != "" {
		d.logger.Warn("Order notifications finished with failures", append(fields, zap.String("failures", summary))...)
	} else {
		d.logger.Info("Order notifications finished", fields...)
	}
	return report
}

// TestWhatsApp sends the fixture order message to every admin number
func (d *Dispatcher) TestWhatsApp(ctx context.Context, settings storefront.AdminSettings) (storefront.DispatchReport, error) {
	order, err := FixtureOrder(settings)
	if err != nil {
		return storefront.DispatchReport{}, err
	}
	msg := NewOrderMessage(order, storefront.DefaultProduct())
	outcomes := d.runConcurrently(ctx, d.adminWhatsApp(settings, WhatsAppText(msg)))
	return storefront.DispatchReport{Outcomes: outcomes}, nil
}

// TestEmail sends the fixture order through the admin email template
func (d *Dispatcher) TestEmail(ctx context.Context, settings storefront.AdminSettings) (storefront.DispatchReport, error) {
	order, err := FixtureOrder(settings)
	if err != nil {
		return storefront.DispatchReport{}, err
	}
	msg := NewOrderMessage(order, storefront.DefaultProduct())
	return storefront.DispatchReport{Outcomes: []storefront.NotificationOutcome{d.adminEmail(settings, msg)(ctx)}}, nil
}

func (d *Dispatcher) runConcurrently(ctx context.Context, attempts []attempt) []storefront.NotificationOutcome {
	outcomes := make([]storefront.NotificationOutcome, len(attempts))
	// plain Group: a failed send is an outcome, not an error, so nothing is cancelled
	var g errgroup.Group
	for i, a := range attempts {
		g.Go(func() error {
			outcomes[i] = a(ctx)
			return nil
		})
	}
	_ = g.Wait()
	return outcomes
}

func (d *Dispatcher) adminWhatsApp(settings storefront.AdminSettings, text string) []attempt {
	numbers := settings.AdminWhatsAppNumbers()
	switch {
	case settings.CallMeBotAPIKey == "":
		return []attempt{skipped(storefront.ChannelWhatsApp, storefront.AudienceAdmin, "CallMeBot API key not configured")}
	case len(numbers) == 0:
		return []attempt{skipped(storefront.ChannelWhatsApp, storefront.AudienceAdmin, "admin WhatsApp number not configured")}
	}

	attempts := make([]attempt, 0, len(numbers))
	for _, phone := range numbers {
		attempts = append(attempts, func(ctx context.Context) storefront.NotificationOutcome {
			if err := d.whatsapp.SendWhatsApp(ctx, phone, settings.CallMeBotAPIKey, text); err != nil {
				return storefront.Failed(storefront.ChannelWhatsApp, storefront.AudienceAdmin, phone, err)
			}
			return storefront.Sent(storefront.ChannelWhatsApp, storefront.AudienceAdmin, phone)
		})
	}
	return attempts
}

func (d *Dispatcher) adminEmail(settings storefront.AdminSettings, msg OrderMessage) attempt {
	return d.emailAttempt(settings, settings.EmailJSTemplateIDAdmin, storefront.AudienceAdmin,
		settings.AdminEmail, AdminEmailParams(msg, settings))
}

func (d *Dispatcher) customerEmail(settings storefront.AdminSettings, msg OrderMessage) attempt {
	return d.emailAttempt(settings, settings.EmailJSTemplateIDUser, storefront.AudienceCustomer,
		msg.Order.Customer.Email, CustomerEmailParams(msg, settings))
}

func (d *Dispatcher) emailAttempt(settings storefront.AdminSettings, templateID string, audience storefront.Audience, recipient string, params map[string]string) attempt {
	if settings.EmailJSServiceID == "" || templateID == "" || settings.EmailJSPublicKey == "" {
		return skipped(storefront.ChannelEmail, audience, "EmailJS service, template or public key not configured")
	}
	email := notify.Email{
		ServiceID:  settings.EmailJSServiceID,
		TemplateID: templateID,
		PublicKey:  settings.EmailJSPublicKey,
		Params:     params,
	}
	return func(ctx context.Context) storefront.NotificationOutcome {
		if err := d.email.SendEmail(ctx, email); err != nil {
			return storefront.Failed(storefront.ChannelEmail, audience, recipient, err)
		}
		return storefront.Sent(storefront.ChannelEmail, audience, recipient)
	}
}

func skipped(channel storefront.Channel, audience storefront.Audience, reason string) attempt {
	return func(context.Context) storefront.NotificationOutcome {
		return storefront.SkippedNotConfigured(channel, audience, reason)
	}
}

func (d *Dispatcher) record(ctx context.Context, report storefront.DispatchReport, elapsed time.Duration) {
	for _, o := range report.Outcomes {
		d.metrics.RecordNotification(ctx, string(o.Channel), string(o.Audience), string(o.Status))
	}
	d.metrics.RecordDispatchDuration(ctx, elapsed, report.AdminSent())
}

// TestResult is the admin panel answer to a test send
type TestResult struct {
	Success  bool                             `json:"success"`
	Error    string                           `json:"error,omitempty"`
	Outcomes []storefront.NotificationOutcome `json:"outcomes"`
}

// ErrNothingSent is reported when a test send made no attempt
var ErrNothingSent = errors.New("no notification was attempted")

// NewTestResult summarizes a test send: it succeeds only when every attempt was sent
func NewTestResult(report storefront.DispatchReport) TestResult {
	res := TestResult{Success: len(report.Outcomes) > 0, Outcomes: report.Outcomes}
	if len(report.Outcomes) == 0 {
		res.Error = ErrNothingSent.Error()
		return res
	}
	for _, o := range report.Outcomes {
		if o.Status != storefront.OutcomeSent {
			res.Success = false
			res.Error = o.Reason
			break
		}
	}
	if summary := report.Summary(); summary != "" {
		res.Error = summary
	}
	return res
}
