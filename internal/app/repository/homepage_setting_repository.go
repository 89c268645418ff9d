package repository

import (
	"github.com/ikkim/shopadmin-backend/internal/app/model"
	"github.com/ikkim/shopadmin-backend/pkg/logger"
	"gorm.io/gorm"
)

type HomepageSettingRepository interface {
	Create(setting *model.HomepageSetting) error
	FindByID(id uint) (*model.HomepageSetting, error)
	FindBySectionName(sectionName string, includeInactive bool) (*model.HomepageSetting, error)
	FindAll(includeInactive bool) ([]model.HomepageSetting, error)
	Update(setting *model.HomepageSetting) error
	Delete(id uint) (bool, error)
}

type homepageSettingRepository struct {
	db *gorm.DB
}

func NewHomepageSettingRepository(db *gorm.DB) HomepageSettingRepository {
	return &homepageSettingRepository{db: db}
}

func (r *homepageSettingRepository) Create(setting *model.HomepageSetting) error {
	if err := r.db.Create(setting).Error; err != nil {
		logger.Error("Failed to create homepage setting", err, map[string]interface{}{
			"section_name": setting.SectionName,
		})
		return err
	}
	return nil
}

func (r *homepageSettingRepository) FindByID(id uint) (*model.HomepageSetting, error) {
	var setting model.HomepageSetting
	if err := r.db.Scopes(notDeleted).First(&setting, id).Error; err != nil {
		return nil, err
	}
	return &setting, nil
}

func (r *homepageSettingRepository) FindBySectionName(sectionName string, includeInactive bool) (*model.HomepageSetting, error) {
	query := r.db.Scopes(notDeleted).Where("section_name = ?", sectionName)
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}
	var setting model.HomepageSetting
	if err := query.First(&setting).Error; err != nil {
		return nil, err
	}
	return &setting, nil
}

func (r *homepageSettingRepository) FindAll(includeInactive bool) ([]model.HomepageSetting, error) {
	query := r.db.Scopes(notDeleted)
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}
	var settings []model.HomepageSetting
	err := query.Order("section_position ASC, id ASC").Find(&settings).Error
	return settings, err
}

func (r *homepageSettingRepository) Update(setting *model.HomepageSetting) error {
	return r.db.Save(setting).Error
}

func (r *homepageSettingRepository) Delete(id uint) (bool, error) {
	affected, err := softDelete(r.db, &model.HomepageSetting{}, "id = ?", id)
	return affected > 0, err
}
