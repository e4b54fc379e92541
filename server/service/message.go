package service

import (
	"context"
	goerrors "errors"

	"github.com/google/uuid"
	"github.com/lanternhq/lantern/model"
	"gorm.io/gorm"
)

// SendMessage delivers a private message, optionally as a reply to an
// earlier message the viewer received or sent.
func (s *Service) SendMessage(ctx context.Context, viewer string, recipientId, title, content string, replyToId *string) (*model.Message, error) {
	if viewer == "" {
		return nil, unauthorizedf("messaging requires a known viewer")
	}
	if content == "" {
		return nil, invalidf("message content must not be empty")
	}

	message := model.Message{
		Id:          uuid.New().String(),
		Title:       title,
		Content:     content,
		SenderID:    viewer,
		RecipientID: recipientId,
		ReplyToID:   replyToId,
	}
	err := s.db(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.User{}).Where("id = ?", recipientId).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return notFoundf("user %s", recipientId)
		}
		if replyToId != nil {
			var parent model.Message
			result := tx.Where("id = ?", *replyToId).First(&parent)
			if goerrors.Is(result.Error, gorm.ErrRecordNotFound) {
				return notFoundf("message %s", *replyToId)
			}
			if result.Error != nil {
				return result.Error
			}
			if parent.SenderID != viewer && parent.RecipientID != viewer {
				return unauthorizedf("cannot reply to someone else's conversation")
			}
		}
		return tx.Create(&message).Error
	})
	if err != nil {
		return nil, err
	}
	return &message, nil
}

// ListInbox returns the viewer's received messages, newest first.
func (s *Service) ListInbox(ctx context.Context, viewer string) ([]*model.Message, error) {
	if viewer == "" {
		return nil, unauthorizedf("the inbox requires a known viewer")
	}
	var messages []*model.Message
	err := s.db(ctx).Where("recipient_id = ?", viewer).Order("created_at DESC").Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}
