package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/seu-repo/arremateai/internal/domain"
	"github.com/seu-repo/arremateai/internal/ports"
)

// MockNotifier records every notification it receives.
type MockNotifier struct {
	mu       sync.Mutex
	Pending  []string
	Approved []string
	Rejected map[string]string

	Err error
}

func NewMockNotifier() *MockNotifier {
	return &MockNotifier{Rejected: make(map[string]string)}
}

func (m *MockNotifier) NotifyNewSellerPending(ctx context.Context, seller *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Pending = append(m.Pending, seller.ID)
	return m.Err
}

func (m *MockNotifier) NotifySellerApproved(ctx context.Context, seller *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Approved = append(m.Approved, seller.ID)
	return m.Err
}

func (m *MockNotifier) NotifySellerRejected(ctx context.Context, seller *domain.User, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Rejected[seller.ID] = reason
	return m.Err
}

func (m *MockNotifier) Total() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Pending) + len(m.Approved) + len(m.Rejected)
}

// MockBlobStore keeps blobs in memory and hands out mem:// URLs.
type MockBlobStore struct {
	mu      sync.Mutex
	Blobs   map[string][]byte
	Deleted []string

	StoreFunc  func(ctx context.Context, data []byte, name, mimeType string) (string, error)
	DeleteFunc func(ctx context.Context, url string) error
}

func NewMockBlobStore() *MockBlobStore {
	return &MockBlobStore{Blobs: make(map[string][]byte)}
}

func (m *MockBlobStore) Store(ctx context.Context, data []byte, name, mimeType string) (string, error) {
	if m.StoreFunc != nil {
		return m.StoreFunc(ctx, data, name, mimeType)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	url := fmt.Sprintf("mem://%d/%s", len(m.Blobs)+1, name)
	m.Blobs[url] = data
	return url, nil
}

func (m *MockBlobStore) Delete(ctx context.Context, url string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, url)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Blobs, url)
	m.Deleted = append(m.Deleted, url)
	return nil
}

// MockEventPublisher records published events.
type MockEventPublisher struct {
	mu            sync.Mutex
	SellerEvents  []domain.SellerStatusChanged
	ListingEvents []domain.ListingChanged
}

func (m *MockEventPublisher) PublishSellerStatusChanged(ctx context.Context, event domain.SellerStatusChanged) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SellerEvents = append(m.SellerEvents, event)
}

func (m *MockEventPublisher) PublishListingChanged(ctx context.Context, event domain.ListingChanged) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ListingEvents = append(m.ListingEvents, event)
}

// MockCNPJLookup is a mock implementation of CNPJLookup
type MockCNPJLookup struct {
	LookupFunc func(ctx context.Context, cnpj string) (*ports.CompanyInfo, error)
	Calls      int
}

func (m *MockCNPJLookup) Lookup(ctx context.Context, cnpj string) (*ports.CompanyInfo, error) {
	m.Calls++
	if m.LookupFunc != nil {
		return m.LookupFunc(ctx, cnpj)
	}
	return &ports.CompanyInfo{CNPJ: cnpj, Situacao: "ATIVA"}, nil
}
