package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	NotificationTypeFollow  = "follow"
	NotificationTypeLike    = "like"
	NotificationTypeComment = "comment"
)

const (
	NotificationStatusCreated  = "created"
	NotificationStatusRead     = "read"
	NotificationStatusArchived = "archived"
)

type Notification struct {
	ID          uint      `gorm:"primary_key;autoIncrement" json:"id"`
	RecipientID uint      `gorm:"not null;index;index:idx_notifications_recipient_created,priority:1" json:"recipient_id"`
	ActorID     uint      `gorm:"not null;index" json:"actor_id"`
	Actor       User      `gorm:"foreignKey:ActorID" json:"actor"`
	Type        string    `gorm:"size:20;not null" json:"type"`
	Status      string    `gorm:"size:20;not null;default:created" json:"status"`
	Content     string    `gorm:"size:255;not null" json:"content"`
	TweetID     *uint     `gorm:"index" json:"tweet_id"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index:idx_notifications_recipient_created,priority:2" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (n *Notification) SaveNotification(db *gorm.DB) (*Notification, error) {
	if n.Status == "" {
		n.Status = NotificationStatusCreated
	}
	err := db.Create(&n).Error
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (n *Notification) FindUserNotifications(db *gorm.DB, uid uint, status string, offset, limit int) ([]Notification, int64, error) {
	query := db.Model(&Notification{}).Where("recipient_id = ?", uid)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	notifications := []Notification{}
	err := query.Preload("Actor").
		Order("created_at desc, id desc").
		Offset(offset).Limit(limit).
		Find(&notifications).Error
	if err != nil {
		return nil, 0, err
	}
	return notifications, total, nil
}

func (n *Notification) CountUnread(db *gorm.DB, uid uint) (int64, error) {
	var count int64
	err := db.Model(&Notification{}).
		Where("recipient_id = ? AND status = ?", uid, NotificationStatusCreated).
		Count(&count).Error
	return count, err
}

func (n *Notification) UpdateStatus(db *gorm.DB, nid, uid uint, status string) (int64, error) {
	result := db.Model(&Notification{}).
		Where("id = ? AND recipient_id = ?", nid, uid).
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now()})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (n *Notification) MarkAllRead(db *gorm.DB, uid uint) error {
	return db.Model(&Notification{}).
		Where("recipient_id = ? AND status = ?", uid, NotificationStatusCreated).
		Updates(map[string]interface{}{"status": NotificationStatusRead, "updated_at": time.Now()}).Error
}

// When a user is deleted, their inbox and everything they triggered goes too.
func (n *Notification) DeleteUserNotifications(db *gorm.DB, uid uint) (int64, error) {
	result := db.Where("recipient_id = ? OR actor_id = ?", uid, uid).Delete(&Notification{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
