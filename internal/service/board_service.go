package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/chat-service/internal/domain"
	"github.com/spec-kit/chat-service/internal/events"
	"github.com/spec-kit/chat-service/internal/repository"
	"github.com/spec-kit/chat-service/internal/storage"
)

// PostMessageInput is a chat message as submitted by a client.
type PostMessageInput struct {
	SenderID   string
	SenderName string
	Text       string
	File       *storage.Upload
}

// PostQuestionInput is a viva question as submitted by a client.
type PostQuestionInput struct {
	SenderID     string
	SenderName   string
	QuestionText string
}

// BoardService owns the chat timeline and the viva questions board.
type BoardService struct {
	messages   repository.MessageRepository
	questions  repository.VivaQuestionRepository
	files      storage.FileStore
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// BoardDependencies groups collaborators of BoardService.
type BoardDependencies struct {
	Messages   repository.MessageRepository
	Questions  repository.VivaQuestionRepository
	Files      storage.FileStore
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewBoardService builds the service.
func NewBoardService(deps BoardDependencies) *BoardService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BoardService{
		messages:   deps.Messages,
		questions:  deps.Questions,
		files:      deps.Files,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// ListMessages returns all messages, soft-deleted ones included, oldest first.
func (s *BoardService) ListMessages(ctx context.Context) ([]domain.Message, error) {
	return s.messages.List(ctx)
}

// PostMessage stores the message (and its file) and broadcasts newMessage.
func (s *BoardService) PostMessage(ctx context.Context, in PostMessageInput) (*domain.Message, error) {
	senderID, senderName := strings.TrimSpace(in.SenderID), strings.TrimSpace(in.SenderName)
	if senderID == "" || senderName == "" {
		return nil, ErrSenderRequired
	}
	if strings.TrimSpace(in.Text) == "" && in.File == nil {
		return nil, ErrEmptyMessage
	}

	msg := &domain.Message{SenderID: senderID, SenderName: senderName}
	if in.Text != "" {
		text := in.Text
		msg.Text = &text
	}
	if in.File != nil {
		if s.files == nil {
			return nil, errors.New("file storage is not configured")
		}
		stored, err := s.files.Save(ctx, *in.File)
		if err != nil {
			return nil, fmt.Errorf("store attachment: %w", err)
		}
		msg.Attachment = &domain.Attachment{URL: stored.URL, FileName: in.File.FileName, FileType: in.File.ContentType}
	}

	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}
	publish(ctx, s.dispatcher, s.logger, events.New(events.EventNewMessage, events.NewMessagePayload(*msg)))
	return msg, nil
}

// SoftDeleteMessage replaces the text with the deletion placeholder.
func (s *BoardService) SoftDeleteMessage(ctx context.Context, id int64) error {
	if err := s.messages.SoftDelete(ctx, id, domain.DeletedMessagePlaceholder); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrMessageNotFound
		}
		return fmt.Errorf("soft delete message: %w", err)
	}
	publish(ctx, s.dispatcher, s.logger, events.New(events.EventMessageDeleted, id))
	return nil
}

// ListVivaQuestions returns all questions, oldest first.
func (s *BoardService) ListVivaQuestions(ctx context.Context) ([]domain.VivaQuestion, error) {
	return s.questions.List(ctx)
}

// PostVivaQuestion stores the question and broadcasts newVivaQuestion.
func (s *BoardService) PostVivaQuestion(ctx context.Context, in PostQuestionInput) (*domain.VivaQuestion, error) {
	senderID, senderName := strings.TrimSpace(in.SenderID), strings.TrimSpace(in.SenderName)
	if senderID == "" || senderName == "" {
		return nil, ErrSenderRequired
	}
	if strings.TrimSpace(in.QuestionText) == "" {
		return nil, ErrEmptyQuestion
	}

	q := &domain.VivaQuestion{SenderID: senderID, SenderName: senderName, QuestionText: in.QuestionText}
	if err := s.questions.Create(ctx, q); err != nil {
		return nil, fmt.Errorf("create viva question: %w", err)
	}
	publish(ctx, s.dispatcher, s.logger, events.New(events.EventNewVivaQuestion, events.NewVivaQuestionPayload(*q)))
	return q, nil
}

// SoftDeleteVivaQuestion replaces the question text with the deletion placeholder.
func (s *BoardService) SoftDeleteVivaQuestion(ctx context.Context, id int64) error {
	if err := s.questions.SoftDelete(ctx, id, domain.DeletedQuestionPlaceholder); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrQuestionNotFound
		}
		return fmt.Errorf("soft delete viva question: %w", err)
	}
	publish(ctx, s.dispatcher, s.logger, events.New(events.EventVivaQuestionDeleted, id))
	return nil
}
