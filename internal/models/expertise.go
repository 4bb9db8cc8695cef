package models

import "time"

// Expertise - заявка на экспертизу картин.
//
// Жизненный цикл: draft -> submitted -> completed | rejected,
// draft -> deleted (мягкое удаление). Частичный уникальный индекс
// гарантирует не более одного черновика на пользователя - это
// storage-level защита от гонки get-or-create.
type Expertise struct {
	BaseModel
	UserID string `gorm:"type:uuid;not null;index;uniqueIndex:uniq_user_draft,where:status = 'draft'" json:"user_id"`
	User   *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`

	Status ExpertiseStatus `gorm:"type:varchar(20);not null;default:'draft';index" json:"status"`

	// Автор работ - свободный текст, обязателен при формировании заявки
	Author string `gorm:"size:255" json:"author"`

	ManagerID *string `gorm:"type:uuid" json:"manager_id,omitempty"`
	Manager   *User   `gorm:"foreignKey:ManagerID" json:"manager,omitempty"`

	FormedAt      *time.Time `json:"formed_at,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	OverallResult *bool      `json:"overall_result,omitempty"`

	Items []ExpertiseItem `gorm:"foreignKey:ExpertiseID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// ExpertiseItem - картина внутри заявки.
// Пара (expertise_id, painting_id) уникальна.
type ExpertiseItem struct {
	BaseModel
	ExpertiseID string    `gorm:"type:uuid;not null;uniqueIndex:uniq_expertise_painting" json:"expertise_id"`
	PaintingID  string    `gorm:"type:uuid;not null;uniqueIndex:uniq_expertise_painting" json:"painting_id"`
	Painting    *Painting `gorm:"foreignKey:PaintingID" json:"painting,omitempty"`

	Comment string `gorm:"type:text" json:"comment"`

	// Результат по картине, заполняется при разрешении заявки
	Result *bool `json:"result,omitempty"`
}
