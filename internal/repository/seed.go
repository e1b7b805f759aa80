package repository

import (
	"context"
	"strings"
	"time"

	"swynk_messaging/internal/domain"
)

type seedUser struct {
	id       int
	username string
	name     string
}

type seedThread struct {
	with     int
	messages []string
}

var demoUsers = []seedUser{
	{1, "sophia", "Sophia"},
	{2, "alexander", "Alexander"},
	{3, "sophie", "Sophie"},
	{4, "thomas", "Thomas"},
	{5, "samantha", "Samantha"},
	{6, "daniel", "Daniel"},
}

// Все демо-диалоги ведет пользователь 1, реплики чередуются начиная с него
var demoThreads = []seedThread{
	{with: 2, messages: []string{
		"Hey! Just saw your pitch on Swynk - absolutely loved it 💡",
		"Thanks Sophia! Would love to collab sometime ☕",
		"That sounds great! Maybe we can work on a project together.",
		"For sure! Let's set up a time to chat more 😊",
	}},
	{with: 3, messages: []string{
		"Hi Sophie, I noticed you're also interested in UX design!",
		"Yes! I've been working on some new prototypes lately.",
		"Would love to see them and maybe give some feedback.",
	}},
	{with: 4, messages: []string{
		"Thomas, did you get my email about the networking event?",
		"Just got it! I'll be there for sure.",
		"Great! Looking forward to seeing you there.",
	}},
}

const seedMessageGap = 10 * time.Minute

// Seed заполняет пустое хранилище демо-пользователями и перепиской.
// Пароль у всех демо-пользователей один, передается уже захешированным.
func (s *MemoryStore) Seed(ctx context.Context, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.users) > 0 {
		s.log.Warn("Store is not empty, skipping demo data")
		return nil
	}

	now := s.now()
	for _, u := range demoUsers {
		s.insertUser(domain.User{
			ID:           u.id,
			Username:     u.username,
			PasswordHash: passwordHash,
			Name:         u.name,
			Avatar:       "/avatars/" + strings.ToLower(u.name) + ".png",
			LastSeen:     now,
		})
	}

	owner := demoUsers[0].id
	for _, thread := range demoThreads {
		at := now.Add(-time.Duration(len(thread.messages)) * time.Hour)
		for i, content := range thread.messages {
			sender, receiver := owner, thread.with
			if i%2 == 1 {
				sender, receiver = thread.with, owner
			}

			message := domain.Message{
				ID:         s.nextMessageID,
				SenderID:   sender,
				ReceiverID: receiver,
				Content:    content,
				CreatedAt:  at,
			}
			s.nextMessageID++
			s.messages[message.ID] = message

			s.touchConversation(owner, thread.with, at, domain.Preview(content))
			at = at.Add(seedMessageGap)
		}
	}

	s.log.Info("Demo data seeded", "users", len(s.users), "conversations", len(s.conversations), "messages", len(s.messages))
	return nil
}
