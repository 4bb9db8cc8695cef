package dto

import (
	"time"

	"artexpertise_backend/internal/models"
)

// --- Expertise Requests ---

// UpdateExpertiseRequest - правка полей черновика
type UpdateExpertiseRequest struct {
	Author *string `json:"author,omitempty" validate:"omitempty,max=255"`
}

// UpdateItemRequest - правка комментария к картине в черновике
type UpdateItemRequest struct {
	Comment string `json:"comment" validate:"max=2000"`
}

// ResolveExpertiseRequest - вердикт менеджера по сформированной заявке
type ResolveExpertiseRequest struct {
	Outcome models.ResolutionOutcome `json:"outcome" validate:"required,oneof=approved rejected"`
}

// ExpertiseSearchCriteria - фильтры списка заявок
type ExpertiseSearchCriteria struct {
	Status   models.ExpertiseStatus `form:"status" validate:"omitempty,oneof=submitted completed rejected"`
	DateFrom *time.Time             `form:"date_from" time_format:"2006-01-02"`
	DateTo   *time.Time             `form:"date_to" time_format:"2006-01-02"`
}

// --- Expertise Responses ---

type ExpertiseResponse struct {
	ID            string                  `json:"id"`
	Status        models.ExpertiseStatus  `json:"status"`
	Author        string                  `json:"author"`
	UserID        string                  `json:"user_id"`
	UserName      string                  `json:"user_name,omitempty"`
	ManagerName   string                  `json:"manager_name,omitempty"`
	CreatedAt     time.Time               `json:"created_at"`
	FormedAt      *time.Time              `json:"formed_at,omitempty"`
	CompletedAt   *time.Time              `json:"completed_at,omitempty"`
	OverallResult *bool                   `json:"overall_result,omitempty"`
	Items         []ExpertiseItemResponse `json:"items,omitempty"`
	ItemCount     int                     `json:"item_count"`
}

type ExpertiseItemResponse struct {
	PaintingID string            `json:"painting_id"`
	Painting   *PaintingResponse `json:"painting,omitempty"`
	Comment    string            `json:"comment"`
	Result     *bool             `json:"result,omitempty"`
}

// ExpertiseSummary - строка списка заявок, без элементов
type ExpertiseSummary struct {
	ID            string                 `json:"id"`
	Status        models.ExpertiseStatus `json:"status"`
	Author        string                 `json:"author"`
	UserID        string                 `json:"user_id"`
	UserName      string                 `json:"user_name,omitempty"`
	ManagerName   string                 `json:"manager_name,omitempty"`
	FormedAt      *time.Time             `json:"formed_at,omitempty"`
	CompletedAt   *time.Time             `json:"completed_at,omitempty"`
	OverallResult *bool                  `json:"overall_result,omitempty"`
}

func NewExpertiseResponse(e *models.Expertise) ExpertiseResponse {
	resp := ExpertiseResponse{
		ID:            e.ID,
		Status:        e.Status,
		Author:        e.Author,
		UserID:        e.UserID,
		CreatedAt:     e.CreatedAt,
		FormedAt:      e.FormedAt,
		CompletedAt:   e.CompletedAt,
		OverallResult: e.OverallResult,
		ItemCount:     len(e.Items),
	}
	if e.User != nil {
		resp.UserName = e.User.Name
	}
	if e.Manager != nil {
		resp.ManagerName = e.Manager.Name
	}
	for i := range e.Items {
		item := &e.Items[i]
		itemResp := ExpertiseItemResponse{
			PaintingID: item.PaintingID,
			Comment:    item.Comment,
			Result:     item.Result,
		}
		if item.Painting != nil {
			p := NewPaintingResponse(item.Painting)
			itemResp.Painting = &p
		}
		resp.Items = append(resp.Items, itemResp)
	}
	return resp
}

func NewExpertiseSummary(e *models.Expertise) ExpertiseSummary {
	s := ExpertiseSummary{
		ID:            e.ID,
		Status:        e.Status,
		Author:        e.Author,
		UserID:        e.UserID,
		FormedAt:      e.FormedAt,
		CompletedAt:   e.CompletedAt,
		OverallResult: e.OverallResult,
	}
	if e.User != nil {
		s.UserName = e.User.Name
	}
	if e.Manager != nil {
		s.ManagerName = e.Manager.Name
	}
	return s
}
