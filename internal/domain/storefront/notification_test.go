package storefront

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicy_Evaluate(t *testing.T) {
	adminFailed := DispatchReport{Outcomes: []NotificationOutcome{
		Failed(ChannelEmail, AudienceAdmin, "atendimento@printfoods.com.br", errors.New("422 template not found")),
		SkippedNotConfigured(ChannelWhatsApp, AudienceAdmin, "CallMeBot API key not configured"),
		Sent(ChannelEmail, AudienceCustomer, "maria@example.com"),
	}}
	adminSent := DispatchReport{Outcomes: []NotificationOutcome{
		Failed(ChannelEmail, AudienceAdmin, "", errors.New("boom")),
		Sent(ChannelWhatsApp, AudienceAdmin, "5522997146538"),
	}}

	t.Run("best effort always succeeds", func(t *testing.T) {
		assert.NoError(t, PolicyBestEffort.Evaluate(adminFailed))
		assert.NoError(t, PolicyBestEffort.Evaluate(DispatchReport{}))
	})

	t.Run("require admin channel", func(t *testing.T) {
		err := PolicyRequireAdminChannel.Evaluate(adminFailed)
		require.ErrorIs(t, err, ErrAdminNotNotified)
		assert.Contains(t, err.Error(), "422 template not found")

		assert.NoError(t, PolicyRequireAdminChannel.Evaluate(adminSent))
		assert.ErrorIs(t, PolicyRequireAdminChannel.Evaluate(DispatchReport{}), ErrAdminNotNotified)
	})
}

func TestDispatchReport(t *testing.T) {
	r := DispatchReport{Outcomes: []NotificationOutcome{
		Failed(ChannelWhatsApp, AudienceAdmin, "1", errors.New("timeout")),
		Failed(ChannelEmail, AudienceCustomer, "c", nil),
		Sent(ChannelEmail, AudienceAdmin, "a"),
	}}
	assert.True(t, r.AdminSent())
	assert.Len(t, r.Failures(), 2)
	assert.Equal(t, "admin/whatsapp: timeout; customer/email: unknown error", r.Summary())
	assert.Empty(t, DispatchReport{}.Summary())
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyBestEffort, p)

	p, err = ParsePolicy(" Require_Admin_Channel ")
	require.NoError(t, err)
	assert.Equal(t, PolicyRequireAdminChannel, p)

	_, err = ParsePolicy("all_or_nothing")
	assert.Error(t, err)
}
