package telemetry

import (
	"fmt"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"gorm.io/gorm"
)

// InstrumentGorm registers the otelgorm plugin so that every statement runs
// in a span. Query variables stay out of spans unless db_log_full_sql is set.
func (tp *TracerProvider) InstrumentGorm(db *gorm.DB) error {
	if !tp.IsEnabled() || !tp.config.DBTraceEnabled {
		return nil
	}

	opts := []otelgorm.Option{
		otelgorm.WithTracerProvider(tp.provider),
		otelgorm.WithDBName(db.Dialector.Name()),
		otelgorm.WithoutMetrics(),
	}
	if !tp.config.DBLogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return fmt.Errorf("failed to register otelgorm plugin: %w", err)
	}
	return nil
}
