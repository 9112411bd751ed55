// internal/repository/message_postgres.go
package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tgmarket/market-backend/internal/models"
)

type postgresMessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &postgresMessageRepository{db: db}
}

func (r *postgresMessageRepository) UpsertRaw(ctx context.Context, user *models.ChatUser, msg *models.Message) (*models.Message, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if user != nil && user.PlatformUserID != 0 {
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "platform_user_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"username", "display_name", "first_name", "last_name", "updated_at"}),
			}).Create(user).Error; err != nil {
				return fmt.Errorf("upsert chat user: %w", err)
			}
			msg.ChatUserID = &user.ID
		}

		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "platform_message_id"}, {Name: "platform_chat_id"}},
			DoNothing: true,
		}).Create(msg).Error; err != nil {
			return fmt.Errorf("upsert message: %w", err)
		}

		// On replay the insert is skipped; load the canonical row either way.
		return tx.Where("platform_message_id = ? AND platform_chat_id = ?",
			msg.PlatformMessageID, msg.PlatformChatID).First(msg).Error
	})
	if err != nil {
		return nil, err
	}
	return msg, nil
}

func (r *postgresMessageRepository) ListUnparsed(ctx context.Context, limit int) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.WithContext(ctx).
		Where("is_parsed = ?", false).
		Order("sent_at ASC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("list unparsed messages: %w", err)
	}
	return messages, nil
}

func (r *postgresMessageRepository) MarkParsed(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("id = ?", id).
		Update("is_parsed", true).Error
	if err != nil {
		return fmt.Errorf("mark message parsed: %w", err)
	}
	return nil
}
