package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/chat-service/internal/api/dto"
	"github.com/spec-kit/chat-service/internal/domain"
	"github.com/spec-kit/chat-service/internal/events"
	"github.com/spec-kit/chat-service/internal/service"
	"github.com/spec-kit/chat-service/internal/storage"
	apperrors "github.com/spec-kit/chat-service/pkg/util/errorutil"
)

// Board manages chat messages and viva questions.
type Board interface {
	ListMessages(ctx context.Context) ([]domain.Message, error)
	PostMessage(ctx context.Context, in service.PostMessageInput) (*domain.Message, error)
	SoftDeleteMessage(ctx context.Context, id int64) error
	ListVivaQuestions(ctx context.Context) ([]domain.VivaQuestion, error)
	PostVivaQuestion(ctx context.Context, in service.PostQuestionInput) (*domain.VivaQuestion, error)
	SoftDeleteVivaQuestion(ctx context.Context, id int64) error
}

// BoardHandler exposes message and viva question endpoints.
type BoardHandler struct {
	board Board
}

// NewBoardHandler constructs handler.
func NewBoardHandler(board Board) *BoardHandler {
	return &BoardHandler{board: board}
}

// ListMessages GET /api/messages.
func (h *BoardHandler) ListMessages(c *fiber.Ctx) error {
	msgs, err := h.board.ListMessages(c.UserContext())
	if err != nil {
		return serviceError(err, "Server error fetching messages.")
	}
	out := make([]events.MessagePayload, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, events.NewMessagePayload(m))
	}
	return c.JSON(out)
}

// PostMessage POST /api/messages. Accepts multipart (with an optional "file"
// part) or JSON.
func (h *BoardHandler) PostMessage(c *fiber.Ctx) error {
	var req dto.PostMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	in := service.PostMessageInput{SenderID: req.SenderID, SenderName: req.SenderName, Text: req.Text}

	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		if fh, err := c.FormFile("file"); err == nil {
			f, err := fh.Open()
			if err != nil {
				return apperrors.NewInternal("Server error sending message.", err)
			}
			defer f.Close()
			in.File = &storage.Upload{
				FileName:    fh.Filename,
				ContentType: fh.Header.Get(fiber.HeaderContentType),
				Size:        fh.Size,
				Body:        f,
			}
		}
	}

	msg, err := h.board.PostMessage(c.UserContext(), in)
	if err != nil {
		return serviceError(err, "Server error sending message.")
	}
	return c.Status(http.StatusCreated).JSON(dto.PostMessageResponse{
		Message:    "Message sent successfully.",
		NewMessage: events.NewMessagePayload(*msg),
	})
}

// DeleteMessage PUT /api/messages/:id/delete.
func (h *BoardHandler) DeleteMessage(c *fiber.Ctx) error {
	id, err := parseID(c.Params("id"), "message")
	if err != nil {
		return err
	}
	if err := h.board.SoftDeleteMessage(c.UserContext(), id); err != nil {
		return serviceError(err, "Server error soft-deleting message.")
	}
	return c.JSON(dto.MessageResponse{Message: "Message soft-deleted successfully."})
}

// ListQuestions GET /api/viva-questions.
func (h *BoardHandler) ListQuestions(c *fiber.Ctx) error {
	questions, err := h.board.ListVivaQuestions(c.UserContext())
	if err != nil {
		return serviceError(err, "Server error fetching viva questions.")
	}
	out := make([]events.VivaQuestionPayload, 0, len(questions))
	for _, q := range questions {
		out = append(out, events.NewVivaQuestionPayload(q))
	}
	return c.JSON(out)
}

// PostQuestion POST /api/viva-questions.
func (h *BoardHandler) PostQuestion(c *fiber.Ctx) error {
	var req dto.PostQuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	q, err := h.board.PostVivaQuestion(c.UserContext(), service.PostQuestionInput{
		SenderID:     req.SenderID,
		SenderName:   req.SenderName,
		QuestionText: req.QuestionText,
	})
	if err != nil {
		return serviceError(err, "Server error adding viva question.")
	}
	return c.Status(http.StatusCreated).JSON(dto.PostQuestionResponse{
		Message:  "Question added successfully.",
		Question: events.NewVivaQuestionPayload(*q),
	})
}

// DeleteQuestion PUT /api/viva-questions/:id/delete.
func (h *BoardHandler) DeleteQuestion(c *fiber.Ctx) error {
	id, err := parseID(c.Params("id"), "question")
	if err != nil {
		return err
	}
	if err := h.board.SoftDeleteVivaQuestion(c.UserContext(), id); err != nil {
		return serviceError(err, "Server error soft-deleting viva question.")
	}
	return c.JSON(dto.MessageResponse{Message: "Viva question soft-deleted successfully."})
}
