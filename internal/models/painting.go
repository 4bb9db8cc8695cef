package models

import (
	"strings"

	"gorm.io/gorm"
)

// Painting - картина в каталоге.
// ImageKey - ключ объекта в хранилище, ImageURL - публичная ссылка;
// каталог не интерпретирует их, просто хранит то, что вернуло хранилище.
// TitleLower ведется хуком для регистронезависимого поиска: SQL-функция
// LOWER не умеет кириллицу на sqlite, strings.ToLower умеет везде.
type Painting struct {
	BaseModel
	Title            string `gorm:"size:100;not null;index" json:"title"`
	TitleLower       string `gorm:"size:100;index" json:"-"`
	Artist           string `gorm:"size:100" json:"artist"`
	ShortDescription string `gorm:"size:255" json:"short_description"`
	Description      string `gorm:"type:text" json:"description"`
	ImageKey         string `gorm:"size:255" json:"-"`
	ImageURL         string `gorm:"size:512" json:"image_url"`
}

func (p *Painting) BeforeSave(tx *gorm.DB) error {
	p.TitleLower = strings.ToLower(p.Title)
	return nil
}
