package storage

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/mohamedkhairy/stock-analyst/internal/models"
)

// MockBarStorage is a mock implementation of BarStorage for testing
type MockBarStorage struct {
	mu       sync.Mutex
	Bars     map[string][]models.Bar
	WriteErr error
	GetErr   error
	Writes   int
}

// NewMockBarStorage creates an empty MockBarStorage
func NewMockBarStorage() *MockBarStorage {
	return &MockBarStorage{Bars: make(map[string][]models.Bar)}
}

func (m *MockBarStorage) WriteBars(ctx context.Context, ticker string, bars []models.Bar) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.WriteErr != nil {
		return m.WriteErr
	}
	if m.Bars == nil {
		m.Bars = make(map[string][]models.Bar)
	}
	m.Writes++

	ticker = models.NormalizeTicker(ticker)
	byDate := make(map[time.Time]models.Bar)
	for _, bar := range m.Bars[ticker] {
		byDate[bar.Date] = bar
	}
	for _, bar := range bars {
		byDate[bar.Date] = bar
	}
	merged := make([]models.Bar, 0, len(byDate))
	for _, bar := range byDate {
		merged = append(merged, bar)
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].Date.Before(merged[j].Date) })
	m.Bars[ticker] = merged
	return nil
}

func (m *MockBarStorage) GetBars(ctx context.Context, ticker string, start, end time.Time) ([]models.Bar, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	var result []models.Bar
	for _, bar := range m.Bars[models.NormalizeTicker(ticker)] {
		if !bar.Date.Before(start) && !bar.Date.After(end) {
			result = append(result, bar)
		}
	}
	return result, nil
}

func (m *MockBarStorage) Close() error {
	return nil
}

// MockKVStore is an in-memory KVStore for testing. TTLs are recorded, not enforced.
type MockKVStore struct {
	mu     sync.Mutex
	Data   map[string]string
	TTLs   map[string]time.Duration
	SetErr error
	GetErr error
}

// NewMockKVStore creates an empty MockKVStore
func NewMockKVStore() *MockKVStore {
	return &MockKVStore{
		Data: make(map[string]string),
		TTLs: make(map[string]time.Duration),
	}
}

func (m *MockKVStore) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SetErr != nil {
		return m.SetErr
	}
	// Marshal to JSON like the real implementation
	jsonData, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.Data[key] = string(jsonData)
	m.TTLs[key] = ttl
	return nil
}

func (m *MockKVStore) GetJSON(ctx context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return m.GetErr
	}
	value, exists := m.Data[key]
	if !exists {
		return ErrKeyNotFound
	}
	return json.Unmarshal([]byte(value), dest)
}

func (m *MockKVStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Data, key)
	delete(m.TTLs, key)
	return nil
}

func (m *MockKVStore) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, exists := m.Data[key]
	return exists, nil
}

func (m *MockKVStore) Ping(ctx context.Context) error {
	return nil
}

func (m *MockKVStore) Close() error {
	return nil
}
