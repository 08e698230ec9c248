package repository

import "time"

type MockCache struct {
	Data    map[string]string
	LastTTL time.Duration
}

func NewMockCache() *MockCache {
	return &MockCache{
		Data: make(map[string]string),
	}
}

func (m *MockCache) Get(key string) (string, bool) {
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value string, ttl time.Duration) error {
	m.Data[key] = value
	m.LastTTL = ttl
	return nil
}
