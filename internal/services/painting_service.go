package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"artexpertise_backend/internal/logger"
	"artexpertise_backend/internal/models"
	"artexpertise_backend/internal/repositories"
	"artexpertise_backend/internal/services/dto"
	"artexpertise_backend/internal/storage"
	"artexpertise_backend/pkg/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const defaultPageSize = 20

type PaintingService struct {
	paintingRepo  *repositories.PaintingRepository
	expertiseRepo *repositories.ExpertiseRepository
	storage       storage.Storage
}

func NewPaintingService(
	paintingRepo *repositories.PaintingRepository,
	expertiseRepo *repositories.ExpertiseRepository,
	store storage.Storage,
) *PaintingService {
	return &PaintingService{
		paintingRepo:  paintingRepo,
		expertiseRepo: expertiseRepo,
		storage:       store,
	}
}

// ListPaintings возвращает страницу каталога. Для авторизованного клиента
// (userID не пустой) ответ дополняется id черновика и числом картин в нем.
func (s *PaintingService) ListPaintings(db *gorm.DB, criteria *dto.PaintingSearchCriteria, userID string) (*dto.PaintingListResponse, error) {
	page := criteria.Page
	if page < 1 {
		page = 1
	}
	pageSize := criteria.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}

	filter := repositories.PaintingFilter{
		Title:  strings.TrimSpace(criteria.Title),
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
	}

	paintings, total, err := s.paintingRepo.FindWithFilter(db, filter)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := &dto.PaintingListResponse{
		Paintings: make([]dto.PaintingResponse, 0, len(paintings)),
		Total:     total,
		Page:      page,
		PageSize:  pageSize,
	}
	for i := range paintings {
		resp.Paintings = append(resp.Paintings, dto.NewPaintingResponse(&paintings[i]))
	}

	if userID != "" {
		draft, err := s.expertiseRepo.FindDraftByUser(db, userID)
		if err == nil {
			resp.DraftID = &draft.ID
			resp.DraftItemCount = int64(len(draft.Items))
		} else if !apperrors.Is(err, repositories.ErrExpertiseNotFound) {
			return nil, apperrors.InternalError(err)
		}
	}

	return resp, nil
}

func (s *PaintingService) GetPainting(db *gorm.DB, id string) (*dto.PaintingResponse, error) {
	painting, err := s.paintingRepo.FindByID(db, id)
	if err != nil {
		if apperrors.Is(err, repositories.ErrPaintingNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	resp := dto.NewPaintingResponse(painting)
	return &resp, nil
}

func (s *PaintingService) CreatePainting(db *gorm.DB, req *dto.CreatePaintingRequest) (*dto.PaintingResponse, error) {
	painting := &models.Painting{
		Title:            req.Title,
		Artist:           req.Artist,
		ShortDescription: req.ShortDescription,
		Description:      req.Description,
	}
	if err := s.paintingRepo.Create(db, painting); err != nil {
		return nil, apperrors.InternalError(err)
	}
	resp := dto.NewPaintingResponse(painting)
	return &resp, nil
}

func (s *PaintingService) UpdatePainting(db *gorm.DB, id string, req *dto.UpdatePaintingRequest) (*dto.PaintingResponse, error) {
	painting, err := s.paintingRepo.FindByID(db, id)
	if err != nil {
		if apperrors.Is(err, repositories.ErrPaintingNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	if req.Title != nil {
		painting.Title = *req.Title
	}
	if req.Artist != nil {
		painting.Artist = *req.Artist
	}
	if req.ShortDescription != nil {
		painting.ShortDescription = *req.ShortDescription
	}
	if req.Description != nil {
		painting.Description = *req.Description
	}

	if err := s.paintingRepo.Update(db, painting); err != nil {
		return nil, apperrors.InternalError(err)
	}
	resp := dto.NewPaintingResponse(painting)
	return &resp, nil
}

// DeletePainting удаляет картину из каталога. Картина, на которую ссылается
// хоть одна не-удаленная заявка, удалению не подлежит; элементы удаленных
// заявок чистятся каскадом.
func (s *PaintingService) DeletePainting(ctx context.Context, db *gorm.DB, id string) error {
	painting, err := s.paintingRepo.FindByID(db, id)
	if err != nil {
		if apperrors.Is(err, repositories.ErrPaintingNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		refs, err := s.paintingRepo.CountActiveReferences(tx, id)
		if err != nil {
			return apperrors.InternalError(err)
		}
		if refs > 0 {
			return apperrors.ErrPaintingInUse
		}

		if err := s.paintingRepo.DeleteItemsForPainting(tx, id); err != nil {
			return apperrors.InternalError(err)
		}
		if err := s.paintingRepo.Delete(tx, id); err != nil {
			return apperrors.InternalError(err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	// Объект в хранилище чистим после коммита; неудача не откатывает удаление
	if painting.ImageKey != "" {
		if err := s.storage.Delete(ctx, painting.ImageKey); err != nil {
			logger.CtxWarn(ctx, "failed to delete painting image from storage",
				"painting_id", id, "key", painting.ImageKey, "error", err)
		}
	}

	return nil
}

// UploadImage сохраняет изображение картины в объектное хранилище
// и подменяет прежний объект, если он был.
func (s *PaintingService) UploadImage(ctx context.Context, db *gorm.DB, id string, reader io.Reader, filename, contentType string) (*dto.PaintingResponse, error) {
	painting, err := s.paintingRepo.FindByID(db, id)
	if err != nil {
		if apperrors.Is(err, repositories.ErrPaintingNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	key := fmt.Sprintf("paintings/%s/%d_%s%s", id, time.Now().Unix(), uuid.NewString()[:8], ext)

	if err := s.storage.Save(ctx, key, reader, contentType); err != nil {
		return nil, apperrors.InternalError(err)
	}

	url, err := s.storage.GetURL(ctx, key)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	oldKey := painting.ImageKey
	painting.ImageKey = key
	painting.ImageURL = url

	if err := s.paintingRepo.Update(db, painting); err != nil {
		// БД не приняла новую ссылку - подчищаем только что загруженный объект
		_ = s.storage.Delete(ctx, key)
		return nil, apperrors.InternalError(err)
	}

	if oldKey != "" && oldKey != key {
		if err := s.storage.Delete(ctx, oldKey); err != nil {
			logger.CtxWarn(ctx, "failed to delete replaced painting image",
				"painting_id", id, "key", oldKey, "error", err)
		}
	}

	resp := dto.NewPaintingResponse(painting)
	return &resp, nil
}
