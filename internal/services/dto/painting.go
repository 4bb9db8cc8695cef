package dto

import (
	"time"

	"artexpertise_backend/internal/models"
)

// --- Painting Requests ---

type CreatePaintingRequest struct {
	Title            string `json:"title" validate:"required,min=1,max=100"`
	Artist           string `json:"artist" validate:"omitempty,max=100"`
	ShortDescription string `json:"short_description" validate:"omitempty,max=255"`
	Description      string `json:"description" validate:"omitempty,max=5000"`
}

type UpdatePaintingRequest struct {
	Title            *string `json:"title,omitempty" validate:"omitempty,min=1,max=100"`
	Artist           *string `json:"artist,omitempty" validate:"omitempty,max=100"`
	ShortDescription *string `json:"short_description,omitempty" validate:"omitempty,max=255"`
	Description      *string `json:"description,omitempty" validate:"omitempty,max=5000"`
}

// PaintingSearchCriteria - параметры поиска по каталогу
type PaintingSearchCriteria struct {
	Title    string `form:"title" validate:"omitempty,max=100"`
	Page     int    `form:"page" validate:"omitempty,min=1"`
	PageSize int    `form:"page_size" validate:"omitempty,min=1,max=100"`
}

// --- Painting Responses ---

type PaintingResponse struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Artist           string    `json:"artist"`
	ShortDescription string    `json:"short_description"`
	Description      string    `json:"description"`
	ImageURL         string    `json:"image_url"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// PaintingListResponse - страница каталога. DraftID и DraftItemCount
// заполняются для авторизованного клиента: фронту нужна "корзина"
// прямо на странице списка.
type PaintingListResponse struct {
	Paintings      []PaintingResponse `json:"paintings"`
	Total          int64              `json:"total"`
	Page           int                `json:"page"`
	PageSize       int                `json:"page_size"`
	DraftID        *string            `json:"draft_id,omitempty"`
	DraftItemCount int64              `json:"draft_item_count"`
}

func NewPaintingResponse(p *models.Painting) PaintingResponse {
	return PaintingResponse{
		ID:               p.ID,
		Title:            p.Title,
		Artist:           p.Artist,
		ShortDescription: p.ShortDescription,
		Description:      p.Description,
		ImageURL:         p.ImageURL,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}
