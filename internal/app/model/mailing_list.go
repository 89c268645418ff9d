package model

import "time"

// MailingListEntry has no soft delete; subscribing twice is a no-op.
type MailingListEntry struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Email     string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func (MailingListEntry) TableName() string {
	return "mailing_list"
}
