package storefront

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSnapshot(t *testing.T) {
	snap := DefaultSnapshot()
	assert.Equal(t, DefaultAdminEmail, snap.Settings.AdminEmail)
	assert.Equal(t, DefaultAdminWhatsApp, snap.Settings.AdminWhatsApp)
	assert.Equal(t, DefaultProductID, snap.Product.ID)
	assert.Equal(t, "25.21", snap.Product.Price.StringFixed(2))
	assert.Contains(t, snap.Product.Description, "\n")
	require.NoError(t, snap.Validate())
}

func TestDecodeSnapshot(t *testing.T) {
	t.Run("round trip keeps every field", func(t *testing.T) {
		in := DefaultSnapshot()
		in.Settings.CallMeBotAPIKey = "key"
		in.Settings.AdminWhatsApp2 = "5521999990000"
		in.Settings.PixKey = "pix@printfoods.com.br"
		in.Settings.ModelImageOval17x25 = "https://cdn/oval.png"
		in.Product.Price = decimal.RequireFromString("27.90")

		data, err := EncodeSnapshot(in)
		require.NoError(t, err)
		out, err := DecodeSnapshot(data)
		require.NoError(t, err)

		assert.Equal(t, in.Settings, out.Settings)
		assert.Equal(t, in.Product.Name, out.Product.Name)
		assert.True(t, in.Product.Price.Equal(out.Product.Price))
	})

	t.Run("missing keys fall back to defaults", func(t *testing.T) {
		out, err := DecodeSnapshot([]byte(`{"settings":{"pixKey":"abc"}}`))
		require.NoError(t, err)
		assert.Equal(t, "abc", out.Settings.PixKey)
		assert.Equal(t, DefaultAdminEmail, out.Settings.AdminEmail)
		assert.Equal(t, DefaultProduct().Name, out.Product.Name)
	})

	t.Run("unknown keys are ignored", func(t *testing.T) {
		out, err := DecodeSnapshot([]byte(`{"settings":{"theme":"dark","adminEmail":"x@y.z"},"extra":1}`))
		require.NoError(t, err)
		assert.Equal(t, "x@y.z", out.Settings.AdminEmail)
	})

	t.Run("empty input yields defaults", func(t *testing.T) {
		out, err := DecodeSnapshot(nil)
		require.NoError(t, err)
		assert.Equal(t, DefaultSnapshot(), out)
	})

	t.Run("malformed input errors", func(t *testing.T) {
		_, err := DecodeSnapshot([]byte(`{"settings":`))
		assert.Error(t, err)
	})
}

func TestAdminSettings_Helpers(t *testing.T) {
	s := DefaultSettings()
	s.AdminWhatsApp = "+55 (22) 99714-6538"
	s.AdminWhatsApp2 = ""
	assert.Equal(t, []string{"5522997146538"}, s.AdminWhatsAppNumbers())

	s.AdminWhatsApp2 = "21 98888-7777"
	assert.Equal(t, []string{"5522997146538", "21988887777"}, s.AdminWhatsAppNumbers())

	s.CNPJ = "12.345.678/0001-90"
	assert.Equal(t, "12.345.678/0001-90", s.PixDisplay())
	s.PixKey = "chave"
	assert.Equal(t, "chave", s.PixDisplay())
}

func TestAdminSettings_SetAsset(t *testing.T) {
	s := DefaultSettings()
	require.NoError(t, s.SetAsset(AssetLogo, "https://cdn/logo.png"))
	require.NoError(t, s.SetAsset(AssetModelImageRect30x14, "data:image/png;base64,AAA"))
	assert.Equal(t, "https://cdn/logo.png", s.Logo)
	assert.Equal(t, "data:image/png;base64,AAA", s.ModelImages()[ModelRect30x14])
	assert.Error(t, s.SetAsset("banner", "x"))

	assert.Equal(t, "https://cdn/logo.png", s.Asset(AssetLogo))
	assert.Equal(t, "data:image/png;base64,AAA", s.Asset(AssetModelImageRect30x14))
	assert.Empty(t, s.Asset("banner"))
}

func TestAdminSettings_PublicHasNoCredentials(t *testing.T) {
	s := DefaultSettings()
	s.CallMeBotAPIKey = "secret-callmebot"
	s.EmailJSPublicKey = "secret-emailjs"
	s.JSONBinAPIKey = "secret-jsonbin"

	pub := s.Public()
	assert.Equal(t, s.AdminWhatsApp, pub.AdminWhatsApp)
	assert.Len(t, pub.ModelImages, 4)
}

func TestProductDetails_Validate(t *testing.T) {
	p := DefaultProduct()
	p.Name = " "
	assert.Error(t, p.Validate())

	p = DefaultProduct()
	p.Price = decimal.NewFromInt(-1)
	assert.Error(t, p.Validate())
}
