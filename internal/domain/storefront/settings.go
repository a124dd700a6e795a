package storefront

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/oscarpiresjunior/pedidos-print-foods/internal/domain/shared"
)

// ErrSettingsNotFound is returned by a SettingsRepository that has nothing stored yet
var ErrSettingsNotFound = shared.NewDomainError("SETTINGS_NOT_FOUND", "Settings were never saved")

// Default operator contact
const (
	DefaultAdminEmail    = "atendimento@printfoods.com.br"
	DefaultAdminWhatsApp = "5522997146538"
)

// AdminSettings is the operator-editable configuration. Saves overwrite it
// wholesale.
type AdminSettings struct {
	// Contact
	AdminEmail          string `json:"adminEmail"`
	AdminWhatsApp       string `json:"adminWhatsapp"`
	AdminWhatsApp2      string `json:"adminWhatsapp2"`
	OrientationVideoURL string `json:"orientationVideoUrl"`

	// Integration credentials. Never sent to storefront clients.
	CallMeBotAPIKey        string `json:"callMeBotApiKey"`
	EmailJSServiceID       string `json:"emailJsServiceId"`
	EmailJSTemplateIDAdmin string `json:"emailJsTemplateIdAdmin"`
	EmailJSTemplateIDUser  string `json:"emailJsTemplateIdUser"`
	EmailJSPublicKey       string `json:"emailJsPublicKey"`
	JSONBinAPIKey          string `json:"jsonBinApiKey"`
	JSONBinBinID           string `json:"jsonBinBinId"`

	// Payment display
	PixKey string `json:"pixKey"`
	CNPJ   string `json:"cnpj"`

	// Branding: inline data URIs or hosted URLs
	Logo                    string `json:"logo"`
	PixQR                   string `json:"pixQr"`
	ModelImageRect22x10     string `json:"modelImageRect22x10"`
	ModelImageRect30x14     string `json:"modelImageRect30x14"`
	ModelImageQuadrada20x20 string `json:"modelImageQuadrada20x20"`
	ModelImageOval17x25     string `json:"modelOval17x25"`
}

// DefaultSettings returns the compiled-in settings
func DefaultSettings() AdminSettings {
	return AdminSettings{
		AdminEmail:    DefaultAdminEmail,
		AdminWhatsApp: DefaultAdminWhatsApp,
	}
}

// AdminWhatsAppNumbers returns the configured admin numbers, digits only
func (s AdminSettings) AdminWhatsAppNumbers() []string {
	var numbers []string
	for _, n := range []string{s.AdminWhatsApp, s.AdminWhatsApp2} {
		if d := DigitsOnly(n); d != "" {
			numbers = append(numbers, d)
		}
	}
	return numbers
}

// PixDisplay is what the customer is told to pay to: the PIX key, or the CNPJ
func (s AdminSettings) PixDisplay() string {
	if strings.TrimSpace(s.PixKey) != "" {
		return s.PixKey
	}
	return s.CNPJ
}

// AssetSlot names a branding image field
type AssetSlot string

const (
	AssetLogo                    AssetSlot = "logo"
	AssetPixQR                   AssetSlot = "pixQr"
	AssetModelImageRect22x10     AssetSlot = "modelImageRect22x10"
	AssetModelImageRect30x14     AssetSlot = "modelImageRect30x14"
	AssetModelImageQuadrada20x20 AssetSlot = "modelImageQuadrada20x20"
	AssetModelImageOval17x25     AssetSlot = "modelOval17x25"
)

// SetAsset stores an image reference in the named slot
func (s *AdminSettings) SetAsset(slot AssetSlot, ref string) error {
	switch slot {
	case AssetLogo:
		s.Logo = ref
	case AssetPixQR:
		s.PixQR = ref
	case AssetModelImageRect22x10:
		s.ModelImageRect22x10 = ref
	case AssetModelImageRect30x14:
		s.ModelImageRect30x14 = ref
	case AssetModelImageQuadrada20x20:
		s.ModelImageQuadrada20x20 = ref
	case AssetModelImageOval17x25:
		s.ModelImageOval17x25 = ref
	default:
		return shared.NewDomainError("INVALID_ASSET_SLOT", fmt.Sprintf("unknown asset slot %q", slot))
	}
	return nil
}

// Asset returns the image reference stored in the named slot
func (s AdminSettings) Asset(slot AssetSlot) string {
	switch slot {
	case AssetLogo:
		return s.Logo
	case AssetPixQR:
		return s.PixQR
	case AssetModelImageRect22x10:
		return s.ModelImageRect22x10
	case AssetModelImageRect30x14:
		return s.ModelImageRect30x14
	case AssetModelImageQuadrada20x20:
		return s.ModelImageQuadrada20x20
	case AssetModelImageOval17x25:
		return s.ModelImageOval17x25
	}
	return ""
}

// ModelImages maps each label model to its preview image
func (s AdminSettings) ModelImages() map[LabelModel]string {
	return map[LabelModel]string{
		ModelRect22x10:     s.ModelImageRect22x10,
		ModelRect30x14:     s.ModelImageRect30x14,
		ModelQuadrada20x20: s.ModelImageQuadrada20x20,
		ModelOval17x25:     s.ModelImageOval17x25,
	}
}

// PublicSettings is the credential-free part of AdminSettings a storefront
// client may read.
type PublicSettings struct {
	AdminEmail          string                `json:"adminEmail"`
	AdminWhatsApp       string                `json:"adminWhatsapp"`
	OrientationVideoURL string                `json:"orientationVideoUrl"`
	PixKey              string                `json:"pixKey"`
	CNPJ                string                `json:"cnpj"`
	Logo                string                `json:"logo"`
	PixQR               string                `json:"pixQr"`
	ModelImages         map[LabelModel]string `json:"modelImages"`
}

// Public strips every credential
func (s AdminSettings) Public() PublicSettings {
	return PublicSettings{
		AdminEmail:          s.AdminEmail,
		AdminWhatsApp:       s.AdminWhatsApp,
		OrientationVideoURL: s.OrientationVideoURL,
		PixKey:              s.PixKey,
		CNPJ:                s.CNPJ,
		Logo:                s.Logo,
		PixQR:               s.PixQR,
		ModelImages:         s.ModelImages(),
	}
}

// Snapshot is the unit every settings backend reads and writes
type Snapshot struct {
	Settings AdminSettings  `json:"settings"`
	Product  ProductDetails `json:"product"`
}

// DefaultSnapshot returns compiled-in settings and product
func DefaultSnapshot() *Snapshot {
	return &Snapshot{
		Settings: DefaultSettings(),
		Product:  DefaultProduct(),
	}
}

// Validate checks a snapshot before it is saved
func (s *Snapshot) Validate() error {
	if s == nil {
		return shared.ErrInvalidInput
	}
	return s.Product.Validate()
}

// DecodeSnapshot parses stored JSON on top of the defaults: keys that are
// missing keep their default value and unknown keys are ignored.
func DecodeSnapshot(data []byte) (*Snapshot, error) {
	snap := DefaultSnapshot()
	if len(data) == 0 {
		return snap, nil
	}
	if err := json.Unmarshal(data, snap); err != nil {
		return nil, fmt.Errorf("decode settings snapshot: %w", err)
	}
	if snap.Product.ID == "" {
		snap.Product.ID = DefaultProductID
	}
	return snap, nil
}

// EncodeSnapshot serializes a snapshot for storage
func EncodeSnapshot(s *Snapshot) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode settings snapshot: %w", err)
	}
	return data, nil
}

// SettingsRepository persists the settings snapshot. Get returns
// ErrSettingsNotFound when nothing was saved yet.
type SettingsRepository interface {
	Get(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, snapshot *Snapshot) error
}
