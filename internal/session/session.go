package session

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mohamedkhairy/stock-analyst/internal/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var cacheLookups = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "session_cache_lookups_total",
		Help: "Total number of session cache lookups",
	},
	[]string{"store", "result"}, // result: "hit" or "miss"
)

// Session holds the price series loaded by one dashboard user.
// Tickers keeps input order; Series is keyed by ticker.
type Session struct {
	ID        string                         `json:"id"`
	UserID    string                         `json:"user_id,omitempty"`
	Tickers   []string                       `json:"tickers"`
	Series    map[string]*models.PriceSeries `json:"series"`
	Start     time.Time                      `json:"start"`
	End       time.Time                      `json:"end"`
	CreatedAt time.Time                      `json:"created_at"`
	UpdatedAt time.Time                      `json:"updated_at"`
}

// New creates an empty session with a random id
func New(userID string) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Series:    make(map[string]*models.PriceSeries),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Reloaded returns a copy of the session holding series, kept in the given
// order. The receiver is left untouched so readers of a cached session
// never see a partial reload.
func (s *Session) Reloaded(series []*models.PriceSeries, start, end time.Time) *Session {
	tickers := make([]string, 0, len(series))
	byTicker := make(map[string]*models.PriceSeries, len(series))
	for _, ps := range series {
		if ps == nil {
			continue
		}
		if _, dup := byTicker[ps.Ticker]; dup {
			continue
		}
		tickers = append(tickers, ps.Ticker)
		byTicker[ps.Ticker] = ps
	}
	return &Session{
		ID:        s.ID,
		UserID:    s.UserID,
		Tickers:   tickers,
		Series:    byTicker,
		Start:     start,
		End:       end,
		CreatedAt: s.CreatedAt,
		UpdatedAt: time.Now().UTC(),
	}
}

// Ordered returns the loaded series in ticker input order
func (s *Session) Ordered() []*models.PriceSeries {
	out := make([]*models.PriceSeries, 0, len(s.Tickers))
	for _, t := range s.Tickers {
		if ps, ok := s.Series[t]; ok {
			out = append(out, ps)
		}
	}
	return out
}

// IsEmpty reports whether no data has been loaded yet
func (s *Session) IsEmpty() bool {
	return len(s.Tickers) == 0
}

// Cache stores sessions between dashboard requests
type Cache interface {
	Put(ctx context.Context, s *Session) error
	// Get returns models.ErrSessionNotFound when the id is unknown or expired
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}
