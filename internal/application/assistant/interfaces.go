package assistant

import "context"

// TextGenerator produces model text for a prompt. Implemented by the
// gemini client.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// ChatMessage is one turn of a stored conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRepository persists assistant conversations. Stored user-role
// messages are what the daily AI message limit counts.
type ChatRepository interface {
	CreateSession(ctx context.Context, userID uint, title string) (uint, error)
	// SessionOwner returns the owning user ID, or (0, nil) when the
	// session does not exist.
	SessionOwner(ctx context.Context, sessionID uint) (uint, error)
	AppendMessage(ctx context.Context, sessionID uint, role, content string) error
	RecentMessages(ctx context.Context, sessionID uint, limit int) ([]ChatMessage, error)
}
