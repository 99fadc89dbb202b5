package usecase

import (
	"context"
	"fmt"

	"github.com/foodiebot/backend/internal/domain"
)

// topProductsLimit is the size of the popularity leaderboard
const topProductsLimit = 5

// AnalyticsService reports simple catalog and conversation statistics
type AnalyticsService struct {
	products      domain.ProductRepository
	conversations domain.ConversationRepository
	messages      domain.MessageRepository
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(
	products domain.ProductRepository,
	conversations domain.ConversationRepository,
	messages domain.MessageRepository,
) *AnalyticsService {
	return &AnalyticsService{
		products:      products,
		conversations: conversations,
		messages:      messages,
	}
}

// Summary returns record counts and the most popular products
func (s *AnalyticsService) Summary(ctx context.Context) (*domain.Analytics, error) {
	totalProducts, err := s.products.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}
	totalConversations, err := s.conversations.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count conversations: %w", err)
	}
	totalMessages, err := s.messages.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count messages: %w", err)
	}

	top, err := s.products.TopByPopularity(ctx, topProductsLimit)
	if err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}

	summary := &domain.Analytics{
		TotalProducts:      totalProducts,
		TotalConversations: totalConversations,
		TotalMessages:      totalMessages,
		TopProducts:        make([]domain.TopProduct, 0, len(top)),
	}
	for _, p := range top {
		summary.TopProducts = append(summary.TopProducts, domain.TopProduct{
			ProductID:       p.ProductID,
			Name:            p.Name,
			PopularityScore: p.PopularityScore,
		})
	}
	return summary, nil
}
