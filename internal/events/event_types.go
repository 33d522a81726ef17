package events

import (
	"time"

	"github.com/spec-kit/chat-service/internal/domain"
)

// EventType enumerates supported event identifiers. The values double as the
// websocket event names, so they must stay stable for clients.
type EventType string

const (
	EventNewMessage          EventType = "newMessage"
	EventMessageDeleted      EventType = "messageDeleted"
	EventNewVivaQuestion     EventType = "newVivaQuestion"
	EventVivaQuestionDeleted EventType = "vivaQuestionDeleted"
	EventUserApproved        EventType = "userApproved"
	EventUserRemoved         EventType = "userRemoved"
	EventSettingUpdated      EventType = "settingUpdated"

	// EventRegistrationPending is internal and never reaches websocket clients.
	EventRegistrationPending EventType = "registrationPending"
)

// BroadcastTypes lists the events fanned out to realtime sessions.
var BroadcastTypes = []EventType{
	EventNewMessage,
	EventMessageDeleted,
	EventNewVivaQuestion,
	EventVivaQuestionDeleted,
	EventUserApproved,
	EventUserRemoved,
	EventSettingUpdated,
}

// Event represents a domain event emitted by services.
type Event struct {
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// New stamps an event with the current time.
func New(eventType EventType, payload interface{}) Event {
	return Event{Type: eventType, Timestamp: time.Now().UTC(), Payload: payload}
}

// MessagePayload is the wire shape of a chat message.
type MessagePayload struct {
	ID         int64     `json:"id"`
	SenderID   string    `json:"senderId"`
	SenderName string    `json:"senderName"`
	Text       *string   `json:"text"`
	FileURL    *string   `json:"fileUrl"`
	FileName   *string   `json:"fileName"`
	FileType   *string   `json:"fileType"`
	IsDeleted  bool      `json:"isDeleted"`
	Timestamp  time.Time `json:"timestamp"`
}

// VivaQuestionPayload is the wire shape of a viva question.
type VivaQuestionPayload struct {
	ID           int64     `json:"id"`
	SenderID     string    `json:"senderId"`
	SenderName   string    `json:"senderName"`
	QuestionText string    `json:"questionText"`
	IsDeleted    bool      `json:"isDeleted"`
	Timestamp    time.Time `json:"timestamp"`
}

// NewMessagePayload flattens a stored message and its attachment.
func NewMessagePayload(m domain.Message) MessagePayload {
	p := MessagePayload{
		ID:         m.ID,
		SenderID:   m.SenderID,
		SenderName: m.SenderName,
		Text:       m.Text,
		IsDeleted:  m.IsDeleted,
		Timestamp:  m.Timestamp,
	}
	if m.Attachment != nil {
		url, name, typ := m.Attachment.URL, m.Attachment.FileName, m.Attachment.FileType
		p.FileURL, p.FileName, p.FileType = &url, &name, &typ
	}
	return p
}

// NewVivaQuestionPayload converts a stored question.
func NewVivaQuestionPayload(q domain.VivaQuestion) VivaQuestionPayload {
	return VivaQuestionPayload{
		ID:           q.ID,
		SenderID:     q.SenderID,
		SenderName:   q.SenderName,
		QuestionText: q.QuestionText,
		IsDeleted:    q.IsDeleted,
		Timestamp:    q.Timestamp,
	}
}

// SettingPayload accompanies settingUpdated.
type SettingPayload struct {
	SettingName  string `json:"settingName"`
	SettingValue bool   `json:"settingValue"`
}

// RegistrationPendingPayload carries what the notifier needs to mail an OTP.
type RegistrationPendingPayload struct {
	TempID    string    `json:"tempId"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	OTP       string    `json:"otp"`
	ExpiresAt time.Time `json:"expiresAt"`
}
