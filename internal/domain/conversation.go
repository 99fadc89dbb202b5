package domain

import "time"

// Message senders
const (
	SenderUser = "user"
	SenderBot  = "bot"
)

// DefaultUserName is used when a conversation is started anonymously
const DefaultUserName = "guest"

// Conversation is a chat session with the bot
type Conversation struct {
	ID        int64     `json:"conversation_id"`
	UserName  string    `json:"user_name"`
	StartedAt time.Time `json:"started_at"`
}

// Message is a single utterance in a conversation. InterestScore is only set on bot replies.
type Message struct {
	ID             int64     `json:"id"`
	ConversationID int64     `json:"conversation_id"`
	Sender         string    `json:"sender"`
	Text           string    `json:"text"`
	CreatedAt      time.Time `json:"created_at"`
	InterestScore  *int      `json:"interest_score,omitempty"`
}

// Analytics summarizes catalog and conversation activity
type Analytics struct {
	TotalProducts      int          `json:"total_products"`
	TotalConversations int          `json:"total_conversations"`
	TotalMessages      int          `json:"total_messages"`
	TopProducts        []TopProduct `json:"top_products"`
}

// TopProduct is a popularity leaderboard entry
type TopProduct struct {
	ProductID       string `json:"product_id"`
	Name            string `json:"name"`
	PopularityScore int    `json:"popularity_score"`
}
