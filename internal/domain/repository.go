package domain

import (
	"context"
	"time"
)

// ProductRepository defines catalog persistence. Products are read-only to the scoring pipeline.
type ProductRepository interface {
	Create(ctx context.Context, product *Product) error
	GetByID(ctx context.Context, productID string) (*Product, error)
	Exists(ctx context.Context, productID string) (bool, error)
	ListAll(ctx context.Context) ([]Product, error)
	TopByPopularity(ctx context.Context, limit int) ([]Product, error)
	Count(ctx context.Context) (int, error)
}

// ConversationRepository defines conversation persistence
type ConversationRepository interface {
	Create(ctx context.Context, conversation *Conversation) error
	GetByID(ctx context.Context, id int64) (*Conversation, error)
	Count(ctx context.Context) (int, error)
}

// MessageRepository defines message persistence
type MessageRepository interface {
	Create(ctx context.Context, message *Message) error
	ListByConversation(ctx context.Context, conversationID int64) ([]Message, error)
	Count(ctx context.Context) (int, error)
}

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
