package configs

import (
	"time"

	"adengine/internal/core/domain"
)

// Frequency configures default frequency caps per event type and which
// backend holds the counters. Campaigns may override the caps; the
// backend choice is global.
type Frequency struct {
	// Backend selects the counter store: "postgres" (default, durable and
	// correct across processes), "redis" or "memory" (single process,
	// dev/test only).
	Backend string `env:"BACKEND" envDefault:"postgres"`

	ImpressionLimit  int64         `env:"IMPRESSION_LIMIT" envDefault:"3"`
	ImpressionWindow time.Duration `env:"IMPRESSION_WINDOW" envDefault:"24h"`
	ClickLimit       int64         `env:"CLICK_LIMIT" envDefault:"1"`
	ClickWindow      time.Duration `env:"CLICK_WINDOW" envDefault:"24h"`
	ConversionLimit  int64         `env:"CONVERSION_LIMIT" envDefault:"1"`
	ConversionWindow time.Duration `env:"CONVERSION_WINDOW" envDefault:"24h"`
}

// Caps materialises the configured defaults as a lookup by event type.
func (c Frequency) Caps() map[domain.EventType]domain.FrequencyCap {
	return map[domain.EventType]domain.FrequencyCap{
		domain.EventImpression: {Limit: c.ImpressionLimit, Window: c.ImpressionWindow},
		domain.EventClick:      {Limit: c.ClickLimit, Window: c.ClickWindow},
		domain.EventConversion: {Limit: c.ConversionLimit, Window: c.ConversionWindow},
	}
}
