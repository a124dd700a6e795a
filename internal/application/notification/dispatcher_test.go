package notification

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/oscarpiresjunior/pedidos-print-foods/internal/domain/storefront"
	"github.com/oscarpiresjunior/pedidos-print-foods/internal/infrastructure/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// MockWhatsAppSender is a mock implementation of WhatsAppSender
type MockWhatsAppSender struct {
	mock.Mock
}

func (m *MockWhatsAppSender) SendWhatsApp(ctx context.Context, phone, apiKey, text string) error {
	args := m.Called(ctx, phone, apiKey, text)
	return args.Error(0)
}

// MockEmailSender is a mock implementation of EmailSender
type MockEmailSender struct {
	mock.Mock
	mu   sync.Mutex
	sent []notify.Email
}

func (m *MockEmailSender) SendEmail(ctx context.Context, email notify.Email) error {
	m.mu.Lock()
	m.sent = append(m.sent, email)
	m.mu.Unlock()
	args := m.Called(ctx, email.TemplateID)
	return args.Error(0)
}

func configuredSettings() storefront.AdminSettings {
	s := storefront.DefaultSettings()
	s.AdminWhatsApp2 = "+55 (21) 98888-7777"
	s.CallMeBotAPIKey = "123456"
	s.EmailJSServiceID = "service_pf"
	s.EmailJSTemplateIDAdmin = "template_admin"
	s.EmailJSTemplateIDUser = "template_user"
	s.EmailJSPublicKey = "public_pf"
	s.PixKey = "pix@printfoods.com.br"
	s.CNPJ = "12.345.678/0001-90"
	return s
}

func fixtureMessage(t *testing.T) OrderMessage {
	t.Helper()
	order, err := FixtureOrder(storefront.DefaultSettings())
	require.NoError(t, err)
	return NewOrderMessage(order, storefront.DefaultProduct())
}

func TestWhatsAppText(t *testing.T) {
	msg := fixtureMessage(t)
	assert.Equal(t,
		"Novo Pedido Print Foods: 500x Etiquetas Comestíveis Personalizadas por Cliente Teste. Entrega: RJ. "+
			"Sabores: Chocolate, Chocolate, Chocolate, Morango, Morango. "+
			"Total: R$151.05 (Produtos R$126.05 + Frete R$25.00). Contato: 21999990000",
		WhatsAppText(msg))

	msg.Order.Flavors = []storefront.FlavorAllocation{{Name: "", Quantity: 200}, {Name: "Uva", Quantity: 300}}
	assert.Contains(t, WhatsAppText(msg), "Sabores: N/A, N/A, Uva, Uva, Uva.")
}

func TestEmailParams(t *testing.T) {
	msg := fixtureMessage(t)
	msg.Order.Flavors[1].Name = " "
	settings := configuredSettings()

	admin := AdminEmailParams(msg, settings)
	assert.Equal(t, "500 unidades (5 pacotes)", admin["quantity"])
	assert.Equal(t, "Pacote 1: Chocolate\nPacote 2: Chocolate\nPacote 3: Chocolate\nPacote 4: Não especificado\nPacote 5: Não especificado",
		admin["sabores_list"])
	assert.Equal(t, "151.05", admin["grand_total"])
	assert.Equal(t, "25.00", admin["shipping_cost"])
	assert.Equal(t, "Retangular 22x10", admin["model"])
	assert.Equal(t, storefront.DefaultAdminEmail, admin["admin_recipient_email"])
	assert.Equal(t, msg.Order.Customer.Email, admin["reply_to"])
	assert.Len(t, admin, 14)

	customer := CustomerEmailParams(msg, settings)
	assert.Equal(t, "pix@printfoods.com.br", customer["pix_key_info"])
	assert.Equal(t, "12.345.678/0001-90", customer["company_cnpj"])
	assert.Equal(t, storefront.DefaultAdminWhatsApp, customer["admin_whatsapp_contact"])
	assert.Equal(t, "126.05", customer["subtotal"])
	assert.Len(t, customer, 15)

	settings.PixKey = ""
	assert.Equal(t, "12.345.678/0001-90", CustomerEmailParams(msg, settings)["pix_key_info"])
}

func TestDispatcher_Dispatch(t *testing.T) {
	t.Run("all channels sent", func(t *testing.T) {
		wa := new(MockWhatsAppSender)
		em := new(MockEmailSender)
		wa.On("SendWhatsApp", mock.Anything, "5522997146538", "123456", mock.Anything).Return(nil)
		wa.On("SendWhatsApp", mock.Anything, "5521988887777", "123456", mock.Anything).Return(nil)
		em.On("SendEmail", mock.Anything, "template_admin").Return(nil)
		em.On("SendEmail", mock.Anything, "template_user").Return(nil)

		d := NewDispatcher(wa, em, nil, zap.NewNop())
		report := d.Dispatch(context.Background(), configuredSettings(), fixtureMessage(t))

		require.Len(t, report.Outcomes, 4)
		assert.Equal(t, storefront.ChannelEmail, report.Outcomes[0].Channel)
		assert.Equal(t, storefront.AudienceAdmin, report.Outcomes[0].Audience)
		assert.Equal(t, storefront.AudienceCustomer, report.Outcomes[3].Audience)
		for _, o := range report.Outcomes {
			assert.Equal(t, storefront.OutcomeSent, o.Status)
		}
		assert.True(t, report.AdminSent())
		wa.AssertExpectations(t)
		em.AssertExpectations(t)
	})

	t.Run("one failure does not stop the others", func(t *testing.T) {
		wa := new(MockWhatsAppSender)
		em := new(MockEmailSender)
		wa.On("SendWhatsApp", mock.Anything, "5522997146538", mock.Anything, mock.Anything).
			Return(errors.New("callmebot returned 500"))
		wa.On("SendWhatsApp", mock.Anything, "5521988887777", mock.Anything, mock.Anything).Return(nil)
		em.On("SendEmail", mock.Anything, "template_admin").Return(errors.New("emailjs returned 422: template not found"))
		em.On("SendEmail", mock.Anything, "template_user").Return(nil)

		core, logs := observer.New(zap.WarnLevel)
		d := NewDispatcher(wa, em, nil, zap.New(core))
		report := d.Dispatch(context.Background(), configuredSettings(), fixtureMessage(t))

		require.Len(t, report.Outcomes, 4)
		assert.Equal(t, storefront.OutcomeFailed, report.Outcomes[0].Status)
		assert.Equal(t, storefront.OutcomeFailed, report.Outcomes[1].Status)
		assert.Equal(t, storefront.OutcomeSent, report.Outcomes[2].Status)
		assert.Equal(t, storefront.OutcomeSent, report.Outcomes[3].Status)
		assert.True(t, report.AdminSent())
		assert.Contains(t, report.Summary(), "template not found")

		require.Equal(t, 1, logs.Len())
		assert.Contains(t, logs.All()[0].ContextMap()["failures"], "callmebot returned 500")
	})

	t.Run("nothing configured skips without calls", func(t *testing.T) {
		wa := new(MockWhatsAppSender)
		em := new(MockEmailSender)

		d := NewDispatcher(wa, em, nil, zap.NewNop())
		report := d.Dispatch(context.Background(), storefront.DefaultSettings(), fixtureMessage(t))

		require.Len(t, report.Outcomes, 3)
		for _, o := range report.Outcomes {
			assert.Equal(t, storefront.OutcomeSkippedNotConfigured, o.Status)
		}
		assert.False(t, report.AdminSent())
		assert.Empty(t, report.Summary())
		wa.AssertNotCalled(t, "SendWhatsApp", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		em.AssertNotCalled(t, "SendEmail", mock.Anything, mock.Anything)
	})

	t.Run("api key without numbers", func(t *testing.T) {
		settings := storefront.AdminSettings{CallMeBotAPIKey: "k"}
		d := NewDispatcher(new(MockWhatsAppSender), new(MockEmailSender), nil, zap.NewNop())
		report := d.Dispatch(context.Background(), settings, fixtureMessage(t))
		assert.Equal(t, storefront.ChannelWhatsApp, report.Outcomes[1].Channel)
		assert.True(t, strings.Contains(report.Outcomes[1].Reason, "number"))
	})

	t.Run("email carries the template params", func(t *testing.T) {
		em := new(MockEmailSender)
		em.On("SendEmail", mock.Anything, mock.Anything).Return(nil)
		settings := configuredSettings()
		settings.CallMeBotAPIKey = ""

		d := NewDispatcher(new(MockWhatsAppSender), em, nil, zap.NewNop())
		d.Dispatch(context.Background(), settings, fixtureMessage(t))

		require.Len(t, em.sent, 2)
		for _, e := range em.sent {
			assert.Equal(t, "service_pf", e.ServiceID)
			assert.Equal(t, "public_pf", e.PublicKey)
			assert.Equal(t, "151.05", e.Params["grand_total"])
		}
	})
}

func TestDispatcher_TestSends(t *testing.T) {
	wa := new(MockWhatsAppSender)
	em := new(MockEmailSender)
	wa.On("SendWhatsApp", mock.Anything, mock.Anything, "123456", mock.MatchedBy(func(text string) bool {
		return strings.Contains(text, "Total: R$151.05")
	})).Return(nil)
	em.On("SendEmail", mock.Anything, "template_admin").Return(errors.New("emailjs returned 400: The Public Key is invalid"))

	d := NewDispatcher(wa, em, nil, zap.NewNop())
	settings := configuredSettings()

	report, err := d.TestWhatsApp(context.Background(), settings)
	require.NoError(t, err)
	res := NewTestResult(report)
	assert.True(t, res.Success)
	assert.Empty(t, res.Error)
	assert.Len(t, res.Outcomes, 2)

	report, err = d.TestEmail(context.Background(), settings)
	require.NoError(t, err)
	res = NewTestResult(report)
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "Public Key is invalid")
	em.AssertNotCalled(t, "SendEmail", mock.Anything, "template_user")
}

func TestNewTestResult(t *testing.T) {
	res := NewTestResult(storefront.DispatchReport{})
	assert.False(t, res.Success)
	assert.Equal(t, ErrNothingSent.Error(), res.Error)

	res = NewTestResult(storefront.DispatchReport{Outcomes: []storefront.NotificationOutcome{
		storefront.SkippedNotConfigured(storefront.ChannelWhatsApp, storefront.AudienceAdmin, "CallMeBot API key not configured"),
	}})
	assert.False(t, res.Success)
	assert.Equal(t, "CallMeBot API key not configured", res.Error)
}
