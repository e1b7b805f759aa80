package domain

import "time"

type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Avatar       string    `json:"avatar"`
	IsTyping     bool      `json:"isTyping"`
	LastSeen     time.Time `json:"lastSeen"`
}

// NewUser содержит данные для регистрации, id и служебные поля назначает хранилище
type NewUser struct {
	Username     string
	PasswordHash string
	Name         string
	Avatar       string
}

// UserPatch содержит только изменяемые поля; nil означает "не трогать"
type UserPatch struct {
	Name     *string
	Avatar   *string
	IsTyping *bool
	LastSeen *time.Time
}

// UserStub отдается вместо пользователя, запись которого не найдена
type UserStub struct {
	ID int `json:"id"`
}
