// internal/models/message.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// ChatUser is the author of trade messages as known to the chat platform.
type ChatUser struct {
	BaseModel
	PlatformUserID int64  `json:"platform_user_id" gorm:"not null;uniqueIndex"`
	Username       string `json:"username" gorm:"size:255"`
	DisplayName    string `json:"display_name" gorm:"size:255"`
	FirstName      string `json:"first_name" gorm:"size:255"`
	LastName       string `json:"last_name" gorm:"size:255"`

	Messages []Message `json:"messages,omitempty" gorm:"foreignKey:ChatUserID"`
}

// Message is a raw trade post as delivered by the fetch collaborator.
// Identity is (platform_message_id, platform_chat_id); redelivery upserts.
type Message struct {
	BaseModel
	PlatformMessageID int64      `json:"platform_message_id" gorm:"not null;uniqueIndex:idx_messages_platform_identity"`
	PlatformChatID    int64      `json:"platform_chat_id" gorm:"not null;uniqueIndex:idx_messages_platform_identity"`
	ChatUserID        *uuid.UUID `json:"chat_user_id" gorm:"type:uuid;index"`
	RawText           string     `json:"raw_text" gorm:"type:text"`
	Permalink         string     `json:"permalink" gorm:"size:500"`
	SentAt            time.Time  `json:"sent_at" gorm:"not null;index"`
	IsParsed          bool       `json:"is_parsed" gorm:"default:false;index"`

	ChatUser *ChatUser `json:"chat_user,omitempty" gorm:"foreignKey:ChatUserID"`
}
