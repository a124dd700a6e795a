package storage

import (
	"context"
	"encoding/base64"
)

// InlineAssetStorage keeps assets inside the settings as data URIs. It is
// used when no object storage is configured.
type InlineAssetStorage struct{}

// NewInlineAssetStorage creates a new InlineAssetStorage
func NewInlineAssetStorage() *InlineAssetStorage {
	return &InlineAssetStorage{}
}

// Store returns data encoded as a data URI; key is ignored
func (InlineAssetStorage) Store(ctx context.Context, key, contentType string, data []byte) (string, error) {
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
