package repositories

import (
	"errors"
	"strings"
	"time"

	"artexpertise_backend/internal/models"

	"gorm.io/gorm"
)

var ErrPaintingNotFound = errors.New("painting not found")

// PaintingFilter - критерии поиска по каталогу
type PaintingFilter struct {
	Title  string
	Limit  int
	Offset int
}

type PaintingRepository struct{}

func NewPaintingRepository() *PaintingRepository {
	return &PaintingRepository{}
}

func (r *PaintingRepository) FindByID(db *gorm.DB, id string) (*models.Painting, error) {
	var painting models.Painting
	err := db.First(&painting, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaintingNotFound
		}
		return nil, err
	}
	return &painting, nil
}

// FindWithFilter возвращает страницу каталога и общее число записей.
// Поиск по названию регистронезависимый, по подстроке.
func (r *PaintingRepository) FindWithFilter(db *gorm.DB, criteria PaintingFilter) ([]models.Painting, int64, error) {
	var paintings []models.Painting
	query := db.Model(&models.Painting{})

	if criteria.Title != "" {
		// Поиск идет по колонке title_lower, которую заполняет хук модели:
		// SQL-функция LOWER на sqlite не опускает не-ASCII символы
		search := "%" + strings.ToLower(criteria.Title) + "%"
		query = query.Where("title_lower LIKE ?", search)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if criteria.Limit > 0 {
		query = query.Limit(criteria.Limit).Offset(criteria.Offset)
	}

	err := query.Order("title ASC").Find(&paintings).Error
	return paintings, total, err
}

func (r *PaintingRepository) Create(db *gorm.DB, painting *models.Painting) error {
	return db.Create(painting).Error
}

func (r *PaintingRepository) Update(db *gorm.DB, painting *models.Painting) error {
	result := db.Model(painting).Updates(map[string]interface{}{
		"title":             painting.Title,
		"title_lower":       strings.ToLower(painting.Title),
		"artist":            painting.Artist,
		"short_description": painting.ShortDescription,
		"description":       painting.Description,
		"image_key":         painting.ImageKey,
		"image_url":         painting.ImageURL,
		"updated_at":        time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPaintingNotFound
	}
	return nil
}

func (r *PaintingRepository) Delete(db *gorm.DB, id string) error {
	result := db.Where("id = ?", id).Delete(&models.Painting{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPaintingNotFound
	}
	return nil
}

// CountActiveReferences считает элементы не-удаленных заявок, ссылающиеся
// на картину. Пока счетчик больше нуля, картину удалять нельзя.
func (r *PaintingRepository) CountActiveReferences(db *gorm.DB, paintingID string) (int64, error) {
	var count int64
	err := db.Model(&models.ExpertiseItem{}).
		Joins("JOIN expertises ON expertises.id = expertise_items.expertise_id").
		Where("expertise_items.painting_id = ? AND expertises.status <> ?",
			paintingID, models.ExpertiseStatusDeleted).
		Count(&count).Error
	return count, err
}

// DeleteItemsForPainting чистит элементы удаленных заявок перед удалением
// картины, чтобы не осталось висячих ссылок.
func (r *PaintingRepository) DeleteItemsForPainting(db *gorm.DB, paintingID string) error {
	return db.Where(
		"painting_id = ? AND expertise_id IN (?)",
		paintingID,
		db.Model(&models.Expertise{}).Select("id").Where("status = ?", models.ExpertiseStatusDeleted),
	).Delete(&models.ExpertiseItem{}).Error
}
