package repositories

import (
	"errors"
	"time"

	"artexpertise_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrExpertiseNotFound = errors.New("expertise not found")
	ErrItemNotFound      = errors.New("expertise item not found")
	ErrDuplicateDraft    = errors.New("draft already exists for user")
	ErrDuplicateItem     = errors.New("painting already added to expertise")
)

// ExpertiseFilter - критерии списка заявок.
// Черновики и удаленные заявки в списки не попадают.
type ExpertiseFilter struct {
	UserID   string // пусто для менеджера - видны заявки всех пользователей
	Status   models.ExpertiseStatus
	FromDate *time.Time
	ToDate   *time.Time
}

type ExpertiseRepository struct{}

func NewExpertiseRepository() *ExpertiseRepository {
	return &ExpertiseRepository{}
}

func (r *ExpertiseRepository) FindByID(db *gorm.DB, id string) (*models.Expertise, error) {
	var expertise models.Expertise
	err := db.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("expertise_items.created_at ASC")
		}).
		Preload("Items.Painting").
		Preload("User").
		Preload("Manager").
		First(&expertise, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExpertiseNotFound
		}
		return nil, err
	}
	return &expertise, nil
}

// FindDraftByUser возвращает черновик пользователя, если он есть.
// Черновик у пользователя не более одного (частичный уникальный индекс).
func (r *ExpertiseRepository) FindDraftByUser(db *gorm.DB, userID string) (*models.Expertise, error) {
	var expertise models.Expertise
	err := db.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("expertise_items.created_at ASC")
		}).
		Preload("Items.Painting").
		Where("user_id = ? AND status = ?", userID, models.ExpertiseStatusDraft).
		First(&expertise).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExpertiseNotFound
		}
		return nil, err
	}
	return &expertise, nil
}

func (r *ExpertiseRepository) Create(db *gorm.DB, expertise *models.Expertise) error {
	err := db.Create(expertise).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateDraft
		}
		return err
	}
	return nil
}

func (r *ExpertiseRepository) Save(db *gorm.DB, expertise *models.Expertise) error {
	return db.Omit("Items", "User", "Manager").Save(expertise).Error
}

// FindWithFilter возвращает сформированные и завершенные заявки.
func (r *ExpertiseRepository) FindWithFilter(db *gorm.DB, criteria ExpertiseFilter) ([]models.Expertise, error) {
	var expertises []models.Expertise
	query := db.Model(&models.Expertise{}).
		Where("status NOT IN ?", []models.ExpertiseStatus{
			models.ExpertiseStatusDraft,
			models.ExpertiseStatusDeleted,
		})

	if criteria.UserID != "" {
		query = query.Where("user_id = ?", criteria.UserID)
	}
	if criteria.Status != "" {
		query = query.Where("status = ?", criteria.Status)
	}
	if criteria.FromDate != nil {
		query = query.Where("formed_at >= ?", criteria.FromDate)
	}
	if criteria.ToDate != nil {
		query = query.Where("formed_at <= ?", criteria.ToDate)
	}

	err := query.
		Preload("User").
		Preload("Manager").
		Order("formed_at DESC").
		Find(&expertises).Error
	return expertises, err
}

// Item operations

func (r *ExpertiseRepository) FindItem(db *gorm.DB, expertiseID, paintingID string) (*models.ExpertiseItem, error) {
	var item models.ExpertiseItem
	err := db.Where("expertise_id = ? AND painting_id = ?", expertiseID, paintingID).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *ExpertiseRepository) CreateItem(db *gorm.DB, item *models.ExpertiseItem) error {
	err := db.Create(item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateItem
		}
		return err
	}
	return nil
}

func (r *ExpertiseRepository) DeleteItem(db *gorm.DB, expertiseID, paintingID string) error {
	result := db.Where("expertise_id = ? AND painting_id = ?", expertiseID, paintingID).
		Delete(&models.ExpertiseItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (r *ExpertiseRepository) UpdateItemComment(db *gorm.DB, expertiseID, paintingID, comment string) error {
	result := db.Model(&models.ExpertiseItem{}).
		Where("expertise_id = ? AND painting_id = ?", expertiseID, paintingID).
		Updates(map[string]interface{}{
			"comment":    comment,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrItemNotFound
	}
	return nil
}

// SetItemResults проставляет вердикт всем элементам заявки при её разрешении
func (r *ExpertiseRepository) SetItemResults(db *gorm.DB, expertiseID string, result bool) error {
	return db.Model(&models.ExpertiseItem{}).
		Where("expertise_id = ?", expertiseID).
		Updates(map[string]interface{}{
			"result":     result,
			"updated_at": time.Now(),
		}).Error
}

func (r *ExpertiseRepository) CountItems(db *gorm.DB, expertiseID string) (int64, error) {
	var count int64
	err := db.Model(&models.ExpertiseItem{}).
		Where("expertise_id = ?", expertiseID).
		Count(&count).Error
	return count, err
}
