// Package postal resolves Brazilian postal codes (CEP) into addresses.
package postal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/oscarpiresjunior/pedidos-print-foods/internal/domain/storefront"
	"go.uber.org/zap"
)

type viaCEPResponse struct {
	CEP        string `json:"cep"`
	Logradouro string `json:"logradouro"`
	Bairro     string `json:"bairro"`
	Localidade string `json:"localidade"`
	UF         string `json:"uf"`
	Erro       any    `json:"erro"`
}

// notFound handles both `"erro": true` and the older `"erro": "true"`
func (r viaCEPResponse) notFound() bool {
	switch v := r.Erro.(type) {
	case bool:
		return v
	case string:
		return v == "true"
	default:
		return false
	}
}

// ViaCEPClient implements storefront.AddressLookup against viacep.com.br
type ViaCEPClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewViaCEPClient creates a new ViaCEPClient
func NewViaCEPClient(baseURL string, timeout time.Duration, logger *zap.Logger) *ViaCEPClient {
	return &ViaCEPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Lookup returns the address for cep. Invalid CEPs fail without a request.
func (c *ViaCEPClient) Lookup(ctx context.Context, cep string) (*storefront.AddressLookupResult, error) {
	digits, err := storefront.NormalizeCEP(cep)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/ws/%s/json/", c.baseURL, digits), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", storefront.ErrCEPLookupFailed, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("ViaCEP request failed", zap.String("cep", digits), zap.Error(err))
		return nil, storefront.ErrCEPLookupFailed
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("ViaCEP returned an error status", zap.String("cep", digits), zap.Int("status", resp.StatusCode))
		return nil, storefront.ErrCEPLookupFailed
	}

	var body viaCEPResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&body); err != nil {
		c.logger.Warn("ViaCEP returned an unreadable body", zap.String("cep", digits), zap.Error(err))
		return nil, storefront.ErrCEPLookupFailed
	}
	if body.notFound() {
		return nil, storefront.ErrCEPNotFound
	}

	return &storefront.AddressLookupResult{
		CEP:      digits,
		Street:   body.Logradouro,
		District: body.Bairro,
		City:     body.Localidade,
		State:    storefront.NormalizeState(body.UF),
	}, nil
}

var _ storefront.AddressLookup = (*ViaCEPClient)(nil)
