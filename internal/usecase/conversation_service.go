package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/foodiebot/backend/internal/domain"
	"github.com/foodiebot/backend/internal/observability"
)

// Bot reply templates
const (
	noMatchReply = "I couldn't find a match right now — can you tell me more about what you'd like? (price, type, or dietary needs)"
	matchReply   = "I found %d items that match your request. Here are the top picks. Interest score: %d%%"
)

// Reply is the bot's answer to one user message
type Reply struct {
	BotText       string
	InterestScore int
	Signals       domain.SignalSet
	Matches       []domain.MatchResult
}

// ConversationService drives the conversational recommendation flow
type ConversationService struct {
	conversations domain.ConversationRepository
	messages      domain.MessageRepository
	catalog       CatalogReader
	logger        *zap.Logger
	metrics       *observability.Metrics
	now           func() time.Time
}

// NewConversationService creates a new conversation service with dependencies
func NewConversationService(
	conversations domain.ConversationRepository,
	messages domain.MessageRepository,
	catalog CatalogReader,
	logger *zap.Logger,
	metrics *observability.Metrics,
) *ConversationService {
	return &ConversationService{
		conversations: conversations,
		messages:      messages,
		catalog:       catalog,
		logger:        logger.Named("conversation"),
		metrics:       metrics,
		now:           time.Now,
	}
}

// StartConversation opens a new conversation for userName (guest when blank)
func (s *ConversationService) StartConversation(ctx context.Context, userName string) (*domain.Conversation, error) {
	userName = strings.TrimSpace(userName)
	if userName == "" {
		userName = domain.DefaultUserName
	}

	conv := &domain.Conversation{UserName: userName, StartedAt: s.now().UTC()}
	if err := s.conversations.Create(ctx, conv); err != nil {
		return nil, fmt.Errorf("create conversation: %w", err)
	}

	s.logger.Info("conversation started", zap.Int64("conversation_id", conv.ID), zap.String("user_name", userName))
	return conv, nil
}

// PostMessage records a user utterance, scores it, ranks the catalog against it
// and records the bot's templated reply.
func (s *ConversationService) PostMessage(ctx context.Context, conversationID int64, text string) (*Reply, error) {
	if _, err := s.conversations.GetByID(ctx, conversationID); err != nil {
		return nil, err
	}

	userMsg := &domain.Message{
		ConversationID: conversationID,
		Sender:         domain.SenderUser,
		Text:           text,
		CreatedAt:      s.now().UTC(),
	}
	if err := s.messages.Create(ctx, userMsg); err != nil {
		return nil, fmt.Errorf("store user message: %w", err)
	}

	signals, interest := ExtractAndScore(text)

	products, err := s.catalog.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	matches := RankCandidates(products, signals, ConversationMatchLimit)

	reply := &Reply{
		BotText:       botText(len(matches), interest),
		InterestScore: interest,
		Signals:       signals,
		Matches:       matches,
	}

	botMsg := &domain.Message{
		ConversationID: conversationID,
		Sender:         domain.SenderBot,
		Text:           reply.BotText,
		CreatedAt:      s.now().UTC(),
		InterestScore:  &interest,
	}
	if err := s.messages.Create(ctx, botMsg); err != nil {
		return nil, fmt.Errorf("store bot message: %w", err)
	}

	s.metrics.MessagesProcessed.Inc()
	s.metrics.InterestScore.Observe(float64(interest))
	s.metrics.MatchesReturned.Observe(float64(len(matches)))

	if ce := s.logger.Check(zap.DebugLevel, "message scored"); ce != nil {
		ce.Write(
			zap.Int64("conversation_id", conversationID),
			zap.Any("signals", signals.Names()),
			zap.Int("interest_score", interest),
			zap.Int("candidates", len(products)),
			zap.Int("matches", len(matches)),
		)
	}

	return reply, nil
}

// History returns the messages of a conversation in the order they were posted
func (s *ConversationService) History(ctx context.Context, conversationID int64) ([]domain.Message, error) {
	if _, err := s.conversations.GetByID(ctx, conversationID); err != nil {
		return nil, err
	}
	return s.messages.ListByConversation(ctx, conversationID)
}

func botText(matchCount, interest int) string {
	if matchCount == 0 {
		return noMatchReply
	}
	return fmt.Sprintf(matchReply, matchCount, interest)
}
