package marketdata

import (
	"fmt"

	"github.com/mohamedkhairy/stock-analyst/internal/config"
	"github.com/mohamedkhairy/stock-analyst/internal/storage"
)

// NewProvider builds the configured provider, wrapped with the bar archive when one is given
func NewProvider(cfg config.MarketDataConfig, archive storage.BarStorage) (Provider, error) {
	var p Provider
	switch cfg.Provider {
	case "yahoo":
		p = NewYahooProvider(cfg)
	case "mock":
		p = NewMockProvider()
	default:
		return nil, fmt.Errorf("unknown market data provider %q", cfg.Provider)
	}
	if archive != nil {
		p = NewArchivingProvider(p, archive)
	}
	return p, nil
}
