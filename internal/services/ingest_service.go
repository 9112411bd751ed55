// internal/services/ingest_service.go
package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tgmarket/market-backend/internal/models"
	"github.com/tgmarket/market-backend/internal/repository"
)

// IncomingMessage is one raw chat message as delivered by the fetcher.
type IncomingMessage struct {
	MessageID int64           `json:"message_id" validate:"required"`
	ChatID    int64           `json:"chat_id" validate:"required"`
	Text      string          `json:"text"`
	Permalink string          `json:"permalink" validate:"omitempty,url"`
	SentAt    time.Time       `json:"sent_at" validate:"required"`
	Author    *IncomingAuthor `json:"author"`
}

type IncomingAuthor struct {
	UserID      int64  `json:"user_id" validate:"required"`
	Username    string `json:"username" validate:"max=255"`
	DisplayName string `json:"display_name" validate:"max=255"`
	FirstName   string `json:"first_name" validate:"max=255"`
	LastName    string `json:"last_name" validate:"max=255"`
}

// IngestResult reports what a batch did.
type IngestResult struct {
	Received int `json:"received"`
	Stored   int `json:"stored"`
	Failed   int `json:"failed"`
}

// IngestService stores fetched messages for the worker to parse. Batches
// are idempotent: re-delivering an export changes nothing.
type IngestService struct {
	messages repository.MessageRepository
	log      *logrus.Logger
}

func NewIngestService(messages repository.MessageRepository, log *logrus.Logger) *IngestService {
	return &IngestService{messages: messages, log: log}
}

func (s *IngestService) Ingest(ctx context.Context, batch []IncomingMessage) IngestResult {
	result := IngestResult{Received: len(batch)}
	for _, in := range batch {
		msg := &models.Message{
			PlatformMessageID: in.MessageID,
			PlatformChatID:    in.ChatID,
			RawText:           in.Text,
			Permalink:         in.Permalink,
			SentAt:            in.SentAt,
		}
		var user *models.ChatUser
		if in.Author != nil {
			user = &models.ChatUser{
				PlatformUserID: in.Author.UserID,
				Username:       in.Author.Username,
				DisplayName:    in.Author.DisplayName,
				FirstName:      in.Author.FirstName,
				LastName:       in.Author.LastName,
			}
		}

		if _, err := s.messages.UpsertRaw(ctx, user, msg); err != nil {
			result.Failed++
			s.log.WithError(err).WithFields(logrus.Fields{
				"platform_message_id": in.MessageID,
				"platform_chat_id":    in.ChatID,
			}).Error("message ingest failed")
			continue
		}
		result.Stored++
	}
	return result
}
