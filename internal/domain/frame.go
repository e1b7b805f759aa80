package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
)

const (
	FrameAuth        = "auth"
	FrameMessage     = "message"
	FrameMessageSent = "message_sent"
	FrameTypingStart = "typing_start"
	FrameTypingEnd   = "typing_end"
)

// InboundFrame приходит от клиента; набор полей зависит от Type
type InboundFrame struct {
	Type       string `json:"type"`
	UserID     WireID `json:"userId"`
	ReceiverID WireID `json:"receiverId"`
	Content    string `json:"content"`
}

// MessageFrame доставляет сохраненное сообщение (message, message_sent)
type MessageFrame struct {
	Type string  `json:"type"`
	Data Message `json:"data"`
}

// TypingFrame сообщает получателю, кто печатает
type TypingFrame struct {
	Type   string `json:"type"`
	UserID int    `json:"userId"`
}

// WireID принимает идентификатор как JSON число или строку с целым числом.
// Невалидное значение не ломает разбор фрейма, а оставляет Valid=false.
type WireID struct {
	Value int
	Valid bool
}

func (id *WireID) UnmarshalJSON(data []byte) error {
	*id = WireID{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	var raw string
	if data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil
		}
	} else {
		raw = string(data)
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	*id = WireID{Value: value, Valid: true}
	return nil
}

// Present повторяет проверку "поле передано и не ноль"
func (id WireID) Present() bool {
	return id.Valid && id.Value != 0
}
