package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/foodiebot/backend/internal/domain"
)

// MockCacheRepository is a mock implementation of domain.CacheRepository
type MockCacheRepository struct {
	data        map[string][]byte
	getError    error
	setError    error
	deleteError error
	getCalled   int
	setCalled   int
	deleted     []string
}

func NewMockCacheRepository() *MockCacheRepository {
	return &MockCacheRepository{data: make(map[string][]byte)}
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	m.getCalled++
	if m.getError != nil {
		return nil, m.getError
	}
	if value, ok := m.data[key]; ok {
		return value, nil
	}
	return nil, domain.ErrCacheMiss
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.setCalled++
	if m.setError != nil {
		return m.setError
	}
	m.data[key] = value
	return nil
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	m.deleted = append(m.deleted, key)
	if m.deleteError != nil {
		return m.deleteError
	}
	delete(m.data, key)
	return nil
}

func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := m.data[key]
	return ok, nil
}

// MockProductRepository is an in-memory domain.ProductRepository
type MockProductRepository struct {
	products  []domain.Product
	listError error
	listCalls int
}

func (m *MockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	for _, p := range m.products {
		if p.ProductID == product.ProductID {
			return domain.ErrProductExists
		}
	}
	m.products = append(m.products, *product)
	return nil
}

func (m *MockProductRepository) GetByID(ctx context.Context, productID string) (*domain.Product, error) {
	for _, p := range m.products {
		if p.ProductID == productID {
			return &p, nil
		}
	}
	return nil, domain.ErrProductNotFound
}

func (m *MockProductRepository) Exists(ctx context.Context, productID string) (bool, error) {
	_, err := m.GetByID(ctx, productID)
	return err == nil, nil
}

func (m *MockProductRepository) ListAll(ctx context.Context) ([]domain.Product, error) {
	m.listCalls++
	if m.listError != nil {
		return nil, m.listError
	}
	out := make([]domain.Product, len(m.products))
	copy(out, m.products)
	return out, nil
}

func (m *MockProductRepository) TopByPopularity(ctx context.Context, limit int) ([]domain.Product, error) {
	out, _ := m.ListAll(ctx)
	sort.SliceStable(out, func(i, j int) bool { return out[i].PopularityScore > out[j].PopularityScore })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MockProductRepository) Count(ctx context.Context) (int, error) {
	return len(m.products), nil
}

// MockConversationRepository is an in-memory domain.ConversationRepository
type MockConversationRepository struct {
	mu            sync.Mutex
	conversations map[int64]domain.Conversation
	nextID        int64
	createError   error
}

func NewMockConversationRepository() *MockConversationRepository {
	return &MockConversationRepository{conversations: make(map[int64]domain.Conversation)}
}

func (m *MockConversationRepository) Create(ctx context.Context, conv *domain.Conversation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createError != nil {
		return m.createError
	}
	m.nextID++
	conv.ID = m.nextID
	m.conversations[conv.ID] = *conv
	return nil
}

func (m *MockConversationRepository) GetByID(ctx context.Context, id int64) (*domain.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	conv, ok := m.conversations[id]
	if !ok {
		return nil, domain.ErrConversationNotFound
	}
	return &conv, nil
}

func (m *MockConversationRepository) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.conversations), nil
}

// MockMessageRepository is an in-memory domain.MessageRepository
type MockMessageRepository struct {
	mu          sync.Mutex
	messages    []domain.Message
	createError error
}

func (m *MockMessageRepository) Create(ctx context.Context, msg *domain.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createError != nil {
		return m.createError
	}
	msg.ID = int64(len(m.messages) + 1)
	m.messages = append(m.messages, *msg)
	return nil
}

func (m *MockMessageRepository) ListByConversation(ctx context.Context, conversationID int64) ([]domain.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Message
	for _, msg := range m.messages {
		if msg.ConversationID == conversationID {
			out = append(out, msg)
		}
	}
	return out, nil
}

func (m *MockMessageRepository) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.messages), nil
}
