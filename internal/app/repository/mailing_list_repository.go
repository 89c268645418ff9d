package repository

import (
	"github.com/ikkim/shopadmin-backend/internal/app/model"
	"github.com/ikkim/shopadmin-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MailingListRepository interface {
	// Subscribe inserts the email unless it is already present and reports whether a row was created.
	Subscribe(email string) (*model.MailingListEntry, bool, error)
	FindByEmail(email string) (*model.MailingListEntry, error)
	List(page Page) ([]model.MailingListEntry, int64, error)
	Delete(id uint) (bool, error)
}

type mailingListRepository struct {
	db *gorm.DB
}

func NewMailingListRepository(db *gorm.DB) MailingListRepository {
	return &mailingListRepository{db: db}
}

func (r *mailingListRepository) Subscribe(email string) (*model.MailingListEntry, bool, error) {
	entry := model.MailingListEntry{Email: email}
	result := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoNothing: true,
	}).Create(&entry)
	if result.Error != nil {
		logger.Error("Failed to subscribe email", result.Error)
		return nil, false, result.Error
	}
	if result.RowsAffected > 0 {
		return &entry, true, nil
	}

	existing, err := r.FindByEmail(email)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (r *mailingListRepository) FindByEmail(email string) (*model.MailingListEntry, error) {
	var entry model.MailingListEntry
	if err := r.db.Where("email = ?", email).First(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *mailingListRepository) List(page Page) ([]model.MailingListEntry, int64, error) {
	var total int64
	if err := r.db.Model(&model.MailingListEntry{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var entries []model.MailingListEntry
	err := r.db.Order("created_at DESC, id DESC").Scopes(paginate(page)).Find(&entries).Error
	return entries, total, err
}

// Delete removes the row permanently.
func (r *mailingListRepository) Delete(id uint) (bool, error) {
	result := r.db.Delete(&model.MailingListEntry{}, id)
	return result.RowsAffected > 0, result.Error
}
