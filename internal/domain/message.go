package domain

import "time"

const (
	// DeletedMessagePlaceholder replaces the text of a soft-deleted message.
	DeletedMessagePlaceholder = "[This message was deleted by an admin]"
	// DeletedQuestionPlaceholder replaces the text of a soft-deleted viva question.
	DeletedQuestionPlaceholder = "[This question was deleted by an admin]"
)

// Message is a chat message, optionally carrying an uploaded file.
type Message struct {
	ID         int64
	SenderID   string
	SenderName string
	Text       *string
	Attachment *Attachment
	IsDeleted  bool
	Timestamp  time.Time
}

// Attachment describes a stored upload referenced by a message.
type Attachment struct {
	URL      string
	FileName string
	FileType string
}

// VivaQuestion is an entry on the viva questions board.
type VivaQuestion struct {
	ID           int64
	SenderID     string
	SenderName   string
	QuestionText string
	IsDeleted    bool
	Timestamp    time.Time
}
