package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"artexpertise_backend/internal/email"
	"artexpertise_backend/internal/logger"
	"artexpertise_backend/internal/models"
	"artexpertise_backend/internal/repositories"
	"artexpertise_backend/internal/services/dto"
	"artexpertise_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// ExpertiseService реализует жизненный цикл заявки на экспертизу:
// draft -> submitted -> completed | rejected, draft -> deleted.
type ExpertiseService struct {
	expertiseRepo *repositories.ExpertiseRepository
	paintingRepo  *repositories.PaintingRepository
	userRepo      *repositories.UserRepository
	emailProvider email.Provider
}

func NewExpertiseService(
	expertiseRepo *repositories.ExpertiseRepository,
	paintingRepo *repositories.PaintingRepository,
	userRepo *repositories.UserRepository,
	emailProvider email.Provider,
) *ExpertiseService {
	return &ExpertiseService{
		expertiseRepo: expertiseRepo,
		paintingRepo:  paintingRepo,
		userRepo:      userRepo,
		emailProvider: emailProvider,
	}
}

// GetOrCreateDraft возвращает черновик пользователя, создавая его при
// отсутствии. Гонку двух параллельных созданий ловит частичный уникальный
// индекс: проигравший перечитывает черновик победителя.
func (s *ExpertiseService) GetOrCreateDraft(db *gorm.DB, userID string) (*dto.ExpertiseResponse, error) {
	draft, err := s.expertiseRepo.FindDraftByUser(db, userID)
	if err == nil {
		resp := dto.NewExpertiseResponse(draft)
		return &resp, nil
	}
	if !apperrors.Is(err, repositories.ErrExpertiseNotFound) {
		return nil, apperrors.InternalError(err)
	}

	draft = &models.Expertise{
		UserID: userID,
		Status: models.ExpertiseStatusDraft,
	}
	if err := s.expertiseRepo.Create(db, draft); err != nil {
		if apperrors.Is(err, repositories.ErrDuplicateDraft) {
			draft, err = s.expertiseRepo.FindDraftByUser(db, userID)
			if err != nil {
				return nil, apperrors.InternalError(err)
			}
			resp := dto.NewExpertiseResponse(draft)
			return &resp, nil
		}
		return nil, apperrors.InternalError(err)
	}

	resp := dto.NewExpertiseResponse(draft)
	return &resp, nil
}

// AddPaintingToDraft добавляет картину в черновик пользователя.
// Идемпотентна: если картина уже в черновике, возвращается текущее
// состояние без ошибки.
func (s *ExpertiseService) AddPaintingToDraft(db *gorm.DB, userID, paintingID string) (*dto.ExpertiseResponse, error) {
	if _, err := s.paintingRepo.FindByID(db, paintingID); err != nil {
		if apperrors.Is(err, repositories.ErrPaintingNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	var draftID string
	err := db.Transaction(func(tx *gorm.DB) error {
		draft, err := s.findOrCreateDraftTx(tx, userID)
		if err != nil {
			return err
		}
		draftID = draft.ID

		item := &models.ExpertiseItem{
			ExpertiseID: draft.ID,
			PaintingID:  paintingID,
		}
		if err := s.expertiseRepo.CreateItem(tx, item); err != nil {
			if apperrors.Is(err, repositories.ErrDuplicateItem) {
				// Картина уже в черновике - это не ошибка
				return nil
			}
			return apperrors.InternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.getResponse(db, draftID)
}

// UpdateDraft правит поля черновика (автора работ)
func (s *ExpertiseService) UpdateDraft(db *gorm.DB, userID, expertiseID string, req *dto.UpdateExpertiseRequest) (*dto.ExpertiseResponse, error) {
	expertise, err := s.findOwnedDraft(db, userID, expertiseID)
	if err != nil {
		return nil, err
	}

	if req.Author != nil {
		expertise.Author = strings.TrimSpace(*req.Author)
	}
	if err := s.expertiseRepo.Save(db, expertise); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return s.getResponse(db, expertiseID)
}

// UpdateItemComment правит комментарий к картине в черновике
func (s *ExpertiseService) UpdateItemComment(db *gorm.DB, userID, expertiseID, paintingID, comment string) (*dto.ExpertiseResponse, error) {
	if _, err := s.findOwnedDraft(db, userID, expertiseID); err != nil {
		return nil, err
	}

	if err := s.expertiseRepo.UpdateItemComment(db, expertiseID, paintingID, comment); err != nil {
		if apperrors.Is(err, repositories.ErrItemNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	return s.getResponse(db, expertiseID)
}

// RemoveItem убирает картину из заявки. Допустимо и для черновика, и для
// уже сформированной заявки; после вердикта состав менять нельзя.
func (s *ExpertiseService) RemoveItem(db *gorm.DB, userID, expertiseID, paintingID string) (*dto.ExpertiseResponse, error) {
	expertise, err := s.findOwned(db, userID, expertiseID)
	if err != nil {
		return nil, err
	}
	if expertise.Status.IsTerminal() {
		return nil, apperrors.ErrExpertiseFinalized
	}

	if err := s.expertiseRepo.DeleteItem(db, expertiseID, paintingID); err != nil {
		if apperrors.Is(err, repositories.ErrItemNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	return s.getResponse(db, expertiseID)
}

// Submit формирует заявку: draft -> submitted. Требуются автор и хотя бы
// одна картина; момент формирования фиксирует сервер.
func (s *ExpertiseService) Submit(ctx context.Context, db *gorm.DB, userID, expertiseID string) (*dto.ExpertiseResponse, error) {
	var formed *models.Expertise
	err := db.Transaction(func(tx *gorm.DB) error {
		expertise, err := s.findOwned(tx, userID, expertiseID)
		if err != nil {
			return err
		}
		if expertise.Status != models.ExpertiseStatusDraft {
			return apperrors.ErrExpertiseNotDraft
		}
		if strings.TrimSpace(expertise.Author) == "" {
			return apperrors.ErrExpertiseAuthorRequired
		}

		count, err := s.expertiseRepo.CountItems(tx, expertiseID)
		if err != nil {
			return apperrors.InternalError(err)
		}
		if count == 0 {
			return apperrors.ErrExpertiseEmpty
		}

		now := time.Now()
		expertise.Status = models.ExpertiseStatusSubmitted
		expertise.FormedAt = &now
		if err := s.expertiseRepo.Save(tx, expertise); err != nil {
			return apperrors.InternalError(err)
		}
		formed = expertise
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifySubmitted(ctx, db, formed)
	return s.getResponse(db, expertiseID)
}

// Resolve - вердикт менеджера по сформированной заявке:
// submitted -> completed | rejected. Результат проставляется и заявке,
// и каждому её элементу; время завершения фиксирует сервер.
func (s *ExpertiseService) Resolve(ctx context.Context, db *gorm.DB, managerID, expertiseID string, outcome models.ResolutionOutcome) (*dto.ExpertiseResponse, error) {
	if !outcome.Valid() {
		return nil, apperrors.ErrInvalidOutcome
	}

	var resolved *models.Expertise
	err := db.Transaction(func(tx *gorm.DB) error {
		expertise, err := s.expertiseRepo.FindByID(tx, expertiseID)
		if err != nil {
			if apperrors.Is(err, repositories.ErrExpertiseNotFound) {
				return apperrors.ErrNotFound(err)
			}
			return apperrors.InternalError(err)
		}
		if expertise.Status != models.ExpertiseStatusSubmitted {
			return apperrors.ErrExpertiseNotSubmitted
		}

		now := time.Now()
		result := outcome.Result()
		expertise.Status = outcome.Status()
		expertise.ManagerID = &managerID
		expertise.CompletedAt = &now
		expertise.OverallResult = &result

		if err := s.expertiseRepo.Save(tx, expertise); err != nil {
			return apperrors.InternalError(err)
		}
		if err := s.expertiseRepo.SetItemResults(tx, expertiseID, result); err != nil {
			return apperrors.InternalError(err)
		}
		resolved = expertise
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyResolved(ctx, db, resolved)
	return s.getResponse(db, expertiseID)
}

// DeleteDraft - мягкое удаление черновика: draft -> deleted.
// Элементы сохраняются, но заявка исчезает из всех списков.
func (s *ExpertiseService) DeleteDraft(db *gorm.DB, userID, expertiseID string) error {
	expertise, err := s.findOwnedDraft(db, userID, expertiseID)
	if err != nil {
		return err
	}

	expertise.Status = models.ExpertiseStatusDeleted
	if err := s.expertiseRepo.Save(db, expertise); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

// List возвращает сформированные и завершенные заявки. Клиент видит
// только свои, менеджер - заявки всех пользователей.
func (s *ExpertiseService) List(db *gorm.DB, requesterID string, isManager bool, criteria *dto.ExpertiseSearchCriteria) ([]dto.ExpertiseSummary, error) {
	filter := repositories.ExpertiseFilter{
		Status:   criteria.Status,
		FromDate: criteria.DateFrom,
		ToDate:   criteria.DateTo,
	}
	if !isManager {
		filter.UserID = requesterID
	}

	expertises, err := s.expertiseRepo.FindWithFilter(db, filter)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	summaries := make([]dto.ExpertiseSummary, 0, len(expertises))
	for i := range expertises {
		summaries = append(summaries, dto.NewExpertiseSummary(&expertises[i]))
	}
	return summaries, nil
}

// Get возвращает заявку с элементами. Удаленная заявка недоступна
// даже владельцу; чужая - только менеджеру.
func (s *ExpertiseService) Get(db *gorm.DB, requesterID string, isManager bool, expertiseID string) (*dto.ExpertiseResponse, error) {
	expertise, err := s.expertiseRepo.FindByID(db, expertiseID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrExpertiseNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	if expertise.Status == models.ExpertiseStatusDeleted {
		return nil, apperrors.ErrNotFound(repositories.ErrExpertiseNotFound)
	}
	if !isManager && expertise.UserID != requesterID {
		return nil, apperrors.ErrNotFound(repositories.ErrExpertiseNotFound)
	}

	resp := dto.NewExpertiseResponse(expertise)
	return &resp, nil
}

// --- helpers ---

func (s *ExpertiseService) findOrCreateDraftTx(tx *gorm.DB, userID string) (*models.Expertise, error) {
	draft, err := s.expertiseRepo.FindDraftByUser(tx, userID)
	if err == nil {
		return draft, nil
	}
	if !apperrors.Is(err, repositories.ErrExpertiseNotFound) {
		return nil, apperrors.InternalError(err)
	}

	draft = &models.Expertise{
		UserID: userID,
		Status: models.ExpertiseStatusDraft,
	}
	if err := s.expertiseRepo.Create(tx, draft); err != nil {
		if apperrors.Is(err, repositories.ErrDuplicateDraft) {
			return s.expertiseRepo.FindDraftByUser(tx, userID)
		}
		return nil, apperrors.InternalError(err)
	}
	return draft, nil
}

// findOwned возвращает заявку пользователя. Чужая заявка для клиента
// неотличима от несуществующей.
func (s *ExpertiseService) findOwned(db *gorm.DB, userID, expertiseID string) (*models.Expertise, error) {
	expertise, err := s.expertiseRepo.FindByID(db, expertiseID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrExpertiseNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	if expertise.UserID != userID || expertise.Status == models.ExpertiseStatusDeleted {
		return nil, apperrors.ErrNotFound(repositories.ErrExpertiseNotFound)
	}
	return expertise, nil
}

func (s *ExpertiseService) findOwnedDraft(db *gorm.DB, userID, expertiseID string) (*models.Expertise, error) {
	expertise, err := s.findOwned(db, userID, expertiseID)
	if err != nil {
		return nil, err
	}
	if expertise.Status != models.ExpertiseStatusDraft {
		return nil, apperrors.ErrExpertiseNotDraft
	}
	return expertise, nil
}

func (s *ExpertiseService) getResponse(db *gorm.DB, expertiseID string) (*dto.ExpertiseResponse, error) {
	expertise, err := s.expertiseRepo.FindByID(db, expertiseID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	resp := dto.NewExpertiseResponse(expertise)
	return &resp, nil
}

// notifySubmitted шлет владельцу подтверждение формирования заявки
func (s *ExpertiseService) notifySubmitted(ctx context.Context, db *gorm.DB, expertise *models.Expertise) {
	if s.emailProvider == nil || expertise == nil {
		return
	}
	user, err := s.userRepo.FindByID(db, expertise.UserID)
	if err != nil {
		return
	}
	go func() {
		body := fmt.Sprintf(
			"<p>Ваша заявка на экспертизу работ автора «%s» принята и передана менеджеру.</p>",
			expertise.Author,
		)
		if err := s.emailProvider.Send(user.Email, "Заявка на экспертизу принята", body); err != nil {
			logger.CtxWarn(ctx, "failed to send submission email",
				"expertise_id", expertise.ID, "error", err)
		}
	}()
}

func (s *ExpertiseService) notifyResolved(ctx context.Context, db *gorm.DB, expertise *models.Expertise) {
	if s.emailProvider == nil || expertise == nil {
		return
	}
	user, err := s.userRepo.FindByID(db, expertise.UserID)
	if err != nil {
		return
	}
	verdict := "отклонена"
	if expertise.OverallResult != nil && *expertise.OverallResult {
		verdict = "подтверждена"
	}
	go func() {
		body := fmt.Sprintf(
			"<p>Экспертиза работ автора «%s» завершена: подлинность %s.</p>",
			expertise.Author, verdict,
		)
		if err := s.emailProvider.Send(user.Email, "Экспертиза завершена", body); err != nil {
			logger.CtxWarn(ctx, "failed to send resolution email",
				"expertise_id", expertise.ID, "error", err)
		}
	}()
}
