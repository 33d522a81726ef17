package dto

import (
	"github.com/spec-kit/chat-service/internal/events"
)

// PostMessageRequest is the non-file part of POST /api/messages.
type PostMessageRequest struct {
	SenderID   string `json:"senderId" form:"senderId"`
	SenderName string `json:"senderName" form:"senderName"`
	Text       string `json:"text" form:"text"`
}

// PostMessageResponse is returned after a message is stored.
type PostMessageResponse struct {
	Message    string                `json:"message"`
	NewMessage events.MessagePayload `json:"newMessage"`
}

// PostQuestionRequest payload for POST /api/viva-questions.
type PostQuestionRequest struct {
	SenderID     string `json:"senderId"`
	SenderName   string `json:"senderName"`
	QuestionText string `json:"questionText"`
}

// PostQuestionResponse is returned after a question is stored.
type PostQuestionResponse struct {
	Message  string                     `json:"message"`
	Question events.VivaQuestionPayload `json:"question"`
}

// UpdateSettingRequest payload for PUT /api/settings/:name. A pointer so a
// missing value is distinguishable from false.
type UpdateSettingRequest struct {
	SettingValue *bool `json:"settingValue"`
}

// MessageResponse is the plain acknowledgement body.
type MessageResponse struct {
	Message string `json:"message"`
}
