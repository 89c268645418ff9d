package model

import (
	"time"

	"gorm.io/datatypes"
)

type HomepageSetting struct {
	ID                 uint                        `gorm:"primarykey" json:"id"`
	SectionName        string                      `gorm:"type:varchar(100);not null;uniqueIndex:idx_homepage_settings_section_name,where:is_deleted = false" json:"section_name"`
	SectionTitle       string                      `gorm:"type:varchar(255)" json:"section_title"`
	SectionDescription string                      `gorm:"type:text" json:"section_description"`
	SectionPosition    int                         `gorm:"not null;default:0" json:"section_position"`
	SectionImages      datatypes.JSONSlice[string] `json:"section_images"`
	ProductIDs         datatypes.JSONSlice[uint]   `json:"product_ids"`
	IsActive           bool                        `gorm:"not null" json:"is_active"`
	CreatedAt          time.Time                   `json:"created_at"`
	UpdatedAt          time.Time                   `json:"updated_at"`
	SoftDelete
}

func (HomepageSetting) TableName() string {
	return "homepage_settings"
}
