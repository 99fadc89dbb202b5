package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/foodiebot/backend/internal/domain"
)

// ConversationRepository implements domain.ConversationRepository
type ConversationRepository struct {
	db *sql.DB
}

// NewConversationRepository creates a conversation repository on db
func NewConversationRepository(db *sql.DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

// Create inserts conv and sets its ID
func (r *ConversationRepository) Create(ctx context.Context, conv *domain.Conversation) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO conversations (user_name, started_at) VALUES (?, ?)`,
		conv.UserName, formatTime(conv.StartedAt))
	if err != nil {
		return fmt.Errorf("insert conversation: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("conversation id: %w", err)
	}
	conv.ID = id
	return nil
}

// GetByID returns a conversation or domain.ErrConversationNotFound
func (r *ConversationRepository) GetByID(ctx context.Context, id int64) (*domain.Conversation, error) {
	var (
		conv      domain.Conversation
		startedAt string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_name, started_at FROM conversations WHERE id = ?`, id,
	).Scan(&conv.ID, &conv.UserName, &startedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrConversationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get conversation: %w", err)
	}

	if conv.StartedAt, err = parseTime(startedAt); err != nil {
		return nil, err
	}
	return &conv, nil
}

// Count returns the number of conversations
func (r *ConversationRepository) Count(ctx context.Context) (int, error) {
	return count(ctx, r.db, "conversations")
}

// MessageRepository implements domain.MessageRepository
type MessageRepository struct {
	db *sql.DB
}

// NewMessageRepository creates a message repository on db
func NewMessageRepository(db *sql.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create inserts msg and sets its ID
func (r *MessageRepository) Create(ctx context.Context, msg *domain.Message) error {
	var score sql.NullInt64
	if msg.InterestScore != nil {
		score = sql.NullInt64{Int64: int64(*msg.InterestScore), Valid: true}
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO messages (conversation_id, sender, text, created_at, interest_score) VALUES (?, ?, ?, ?, ?)`,
		msg.ConversationID, msg.Sender, msg.Text, formatTime(msg.CreatedAt), score)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("message id: %w", err)
	}
	msg.ID = id
	return nil
}

// ListByConversation returns the messages of a conversation in posting order
func (r *MessageRepository) ListByConversation(ctx context.Context, conversationID int64) ([]domain.Message, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, conversation_id, sender, text, created_at, interest_score
		 FROM messages WHERE conversation_id = ? ORDER BY id`, conversationID)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	messages := []domain.Message{}
	for rows.Next() {
		var (
			msg       domain.Message
			createdAt string
			score     sql.NullInt64
		)
		if err := rows.Scan(&msg.ID, &msg.ConversationID, &msg.Sender, &msg.Text, &createdAt, &score); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		if msg.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		if score.Valid {
			v := int(score.Int64)
			msg.InterestScore = &v
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}
	return messages, nil
}

// Count returns the number of messages
func (r *MessageRepository) Count(ctx context.Context) (int, error) {
	return count(ctx, r.db, "messages")
}
