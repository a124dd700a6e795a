package telemetry

import (
	"fmt"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"gorm.io/gorm"
)

// RegisterDBTracing installs the otelgorm plugin so settings and order archive
// queries show up as child spans of the HTTP request. Query variables are
// never recorded; the settings row carries provider credentials.
func RegisterDBTracing(db *gorm.DB, dbSystem string) error {
	plugin := otelgorm.NewPlugin(
		otelgorm.WithDBName(dbSystem),
		otelgorm.WithoutQueryVariables(),
	)
	if err := db.Use(plugin); err != nil {
		return fmt.Errorf("register otelgorm: %w", err)
	}
	return nil
}
