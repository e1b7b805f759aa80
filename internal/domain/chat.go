package domain

import "time"

const PreviewLength = 50

type Message struct {
	ID         int        `json:"id"`
	SenderID   int        `json:"senderId"`
	ReceiverID int        `json:"receiverId"`
	Content    string     `json:"content"`
	CreatedAt  time.Time  `json:"createdAt"`
	ReadAt     *time.Time `json:"readAt"`
}

type NewMessage struct {
	SenderID   int
	ReceiverID int
	Content    string
}

type Conversation struct {
	ID                 int       `json:"id"`
	Participant1ID     int       `json:"participant1Id"`
	Participant2ID     int       `json:"participant2Id"`
	LastMessageAt      time.Time `json:"lastMessageAt"`
	LastMessagePreview string    `json:"lastMessagePreview"`
}

type NewConversation struct {
	Participant1ID int
	Participant2ID int
}

type ConversationPatch struct {
	LastMessageAt      *time.Time
	LastMessagePreview *string
}

// Involves проверяет участие пользователя в диалоге
func (c Conversation) Involves(userID int) bool {
	return c.Participant1ID == userID || c.Participant2ID == userID
}

// Matches сравнивает неупорядоченную пару участников
func (c Conversation) Matches(a, b int) bool {
	return (c.Participant1ID == a && c.Participant2ID == b) ||
		(c.Participant1ID == b && c.Participant2ID == a)
}

// OtherParticipant возвращает собеседника userID
func (c Conversation) OtherParticipant(userID int) int {
	if c.Participant1ID == userID {
		return c.Participant2ID
	}
	return c.Participant1ID
}

// ConversationView содержит диалог с данными собеседника для списка диалогов
type ConversationView struct {
	Conversation
	OtherUser interface{} `json:"otherUser"`
}

// Matches проверяет, что сообщение принадлежит паре в любом направлении
func (m Message) Matches(a, b int) bool {
	return (m.SenderID == a && m.ReceiverID == b) ||
		(m.SenderID == b && m.ReceiverID == a)
}

// Preview обрезает текст до PreviewLength символов и добавляет "..."
func Preview(content string) string {
	runes := []rune(content)
	if len(runes) <= PreviewLength {
		return content
	}
	return string(runes[:PreviewLength]) + "..."
}
