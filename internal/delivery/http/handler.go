package http

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/foodiebot/backend/internal/domain"
	"github.com/foodiebot/backend/internal/usecase"
)

// ConversationUseCase is the conversation flow the handlers drive
type ConversationUseCase interface {
	StartConversation(ctx context.Context, userName string) (*domain.Conversation, error)
	PostMessage(ctx context.Context, conversationID int64, text string) (*usecase.Reply, error)
	History(ctx context.Context, conversationID int64) ([]domain.Message, error)
}

// CatalogUseCase is the catalog surface exposed over HTTP
type CatalogUseCase interface {
	GetProduct(ctx context.Context, productID string) (*domain.Product, error)
	CreateProduct(ctx context.Context, token string, product *domain.Product) error
	Search(ctx context.Context, filter usecase.SearchFilter) ([]domain.MatchResult, error)
}

// AnalyticsUseCase reports activity totals
type AnalyticsUseCase interface {
	Summary(ctx context.Context) (*domain.Analytics, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	conversations ConversationUseCase
	catalog       CatalogUseCase
	analytics     AnalyticsUseCase
	logger        *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(conversations ConversationUseCase, catalog CatalogUseCase, analytics AnalyticsUseCase, logger *zap.Logger) *Handler {
	return &Handler{
		conversations: conversations,
		catalog:       catalog,
		analytics:     analytics,
		logger:        logger.Named("http"),
	}
}

// MessageRequest is the body of a posted user message. An empty text is a valid utterance.
type MessageRequest struct {
	Text *string `json:"text" binding:"required"`
}

// MatchResponse is one ranked product in a reply or search result
type MatchResponse struct {
	ProductID       string  `json:"product_id"`
	Name            string  `json:"name"`
	Category        string  `json:"category"`
	Price           float64 `json:"price"`
	PopularityScore int     `json:"popularity_score"`
	SpiceLevel      int     `json:"spice_level"`
	ImageURL        string  `json:"image_url"`
	Score           float64 `json:"score"`
}

// MessageResponse is the bot's answer to a posted message
type MessageResponse struct {
	BotText       string           `json:"bot_text"`
	InterestScore int              `json:"interest_score"`
	Signals       domain.SignalSet `json:"signals"`
	Matches       []MatchResponse  `json:"matches"`
}

// ProductRequest is the admin create body. Omitted popularity defaults to 50.
type ProductRequest struct {
	ProductID       string   `json:"product_id" binding:"required"`
	Name            string   `json:"name" binding:"required"`
	Category        string   `json:"category"`
	Description     string   `json:"description"`
	Ingredients     []string `json:"ingredients"`
	Price           *float64 `json:"price" binding:"required"`
	Calories        int      `json:"calories"`
	PrepTime        string   `json:"prep_time"`
	DietaryTags     []string `json:"dietary_tags"`
	MoodTags        []string `json:"mood_tags"`
	Allergens       []string `json:"allergens"`
	PopularityScore *int     `json:"popularity_score"`
	ChefSpecial     bool     `json:"chef_special"`
	LimitedTime     bool     `json:"limited_time"`
	SpiceLevel      int      `json:"spice_level"`
	ImagePrompt     string   `json:"image_prompt"`
	ImageURL        string   `json:"image_url"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "foodiebot-backend",
		"version": "1.0.0",
	})
}

// StartConversation opens a conversation for the user_name query parameter
func (h *Handler) StartConversation(c *gin.Context) {
	conv, err := h.conversations.StartConversation(c.Request.Context(), c.Query("user_name"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversation_id": conv.ID})
}

// PostMessage scores a user message and returns the bot reply with ranked matches
func (h *Handler) PostMessage(c *gin.Context) {
	id, ok := conversationID(c)
	if !ok {
		return
	}

	var req MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}

	reply, err := h.conversations.PostMessage(c.Request.Context(), id, *req.Text)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{
		BotText:       reply.BotText,
		InterestScore: reply.InterestScore,
		Signals:       reply.Signals,
		Matches:       toMatchResponses(reply.Matches),
	})
}

// ListMessages returns the conversation history
func (h *Handler) ListMessages(c *gin.Context) {
	id, ok := conversationID(c)
	if !ok {
		return
	}

	messages, err := h.conversations.History(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversation_id": id, "messages": messages})
}

// Search runs a plain catalog search from query parameters
func (h *Handler) Search(c *gin.Context) {
	filter := usecase.SearchFilter{
		Query:    c.Query("q"),
		Category: c.Query("category"),
	}
	if raw := strings.TrimSpace(c.Query("max_price")); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "max_price must be a number"})
			return
		}
		filter.MaxPrice = price
	}

	results, err := h.catalog.Search(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toMatchResponses(results))
}

// GetProduct returns a single catalog item
func (h *Handler) GetProduct(c *gin.Context) {
	product, err := h.catalog.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// CreateProduct adds a product; the admin token travels in the token query parameter
func (h *Handler) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product_id, name and price are required"})
		return
	}

	product := req.toProduct()
	if err := h.catalog.CreateProduct(c.Request.Context(), c.Query("token"), product); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "created", "product_id": product.ProductID})
}

// Analytics returns record totals and the popularity leaderboard
func (h *Handler) Analytics(c *gin.Context) {
	summary, err := h.analytics.Summary(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// respondError maps domain errors to HTTP status codes
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrConversationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
	case errors.Is(err, domain.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, domain.ErrProductExists):
		c.JSON(http.StatusConflict, gin.H{"error": "product already exists"})
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func conversationID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid conversation id"})
		return 0, false
	}
	return id, true
}

func (r *ProductRequest) toProduct() *domain.Product {
	popularity := domain.DefaultPopularityScore
	if r.PopularityScore != nil {
		popularity = *r.PopularityScore
	}
	return &domain.Product{
		ProductID:       strings.TrimSpace(r.ProductID),
		Name:            r.Name,
		Category:        r.Category,
		Description:     r.Description,
		Ingredients:     r.Ingredients,
		Price:           *r.Price,
		Calories:        r.Calories,
		PrepTime:        r.PrepTime,
		DietaryTags:     r.DietaryTags,
		MoodTags:        r.MoodTags,
		Allergens:       r.Allergens,
		PopularityScore: popularity,
		ChefSpecial:     r.ChefSpecial,
		LimitedTime:     r.LimitedTime,
		SpiceLevel:      r.SpiceLevel,
		ImagePrompt:     r.ImagePrompt,
		ImageURL:        r.ImageURL,
	}
}

func toMatchResponses(results []domain.MatchResult) []MatchResponse {
	out := make([]MatchResponse, 0, len(results))
	for _, r := range results {
		out = append(out, MatchResponse{
			ProductID:       r.Product.ProductID,
			Name:            r.Product.Name,
			Category:        r.Product.Category,
			Price:           r.Product.Price,
			PopularityScore: r.Product.PopularityScore,
			SpiceLevel:      r.Product.SpiceLevel,
			ImageURL:        r.Product.ImageURL,
			Score:           roundScore(r.Score),
		})
	}
	return out
}

// roundScore rounds to two decimals for display
func roundScore(s float64) float64 {
	return math.Round(s*100) / 100
}
