package services

import (
	"context"
	"strings"
	"testing"

	"artexpertise_backend/internal/models"
	"artexpertise_backend/internal/repositories"
	"artexpertise_backend/internal/services/dto"
	"artexpertise_backend/internal/storage"
	"artexpertise_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPaintingService(t *testing.T) *PaintingService {
	t.Helper()

	store, err := storage.NewLocalStorage(storage.Config{
		BasePath: t.TempDir(),
		BaseURL:  "/files",
	})
	require.NoError(t, err)

	return NewPaintingService(
		repositories.NewPaintingRepository(),
		repositories.NewExpertiseRepository(),
		store,
	)
}

func TestPaintingCRUD(t *testing.T) {
	db := newTestDB(t)
	svc := newTestPaintingService(t)

	created, err := svc.CreatePainting(db, &dto.CreatePaintingRequest{
		Title:            "Грачи прилетели",
		Artist:           "Алексей Саврасов",
		ShortDescription: "Весенний пейзаж",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	got, err := svc.GetPainting(db, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Грачи прилетели", got.Title)

	updated, err := svc.UpdatePainting(db, created.ID, &dto.UpdatePaintingRequest{
		Description: strPtr("Холст, масло"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Холст, масло", updated.Description)
	assert.Equal(t, "Грачи прилетели", updated.Title)

	require.NoError(t, svc.DeletePainting(context.Background(), db, created.ID))

	_, err = svc.GetPainting(db, created.ID)
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
}

func TestListPaintings_TitleFilter(t *testing.T) {
	db := newTestDB(t)
	svc := newTestPaintingService(t)

	createTestPainting(t, db, "Утро в сосновом лесу")
	createTestPainting(t, db, "Рожь")
	createTestPainting(t, db, "Утро стрелецкой казни")

	// Регистронезависимый поиск по подстроке, кириллица включительно
	resp, err := svc.ListPaintings(db, &dto.PaintingSearchCriteria{Title: "утро"}, "")
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Total)
	require.Len(t, resp.Paintings, 2)
	for _, p := range resp.Paintings {
		assert.True(t, strings.Contains(strings.ToLower(p.Title), "утро"))
	}

	// Запрос в верхнем регистре находит те же записи
	upper, err := svc.ListPaintings(db, &dto.PaintingSearchCriteria{Title: "УТРО"}, "")
	require.NoError(t, err)
	assert.Equal(t, int64(2), upper.Total)

	// Без фильтра - весь каталог
	all, err := svc.ListPaintings(db, &dto.PaintingSearchCriteria{}, "")
	require.NoError(t, err)
	assert.Equal(t, int64(3), all.Total)
}

// Поисковая колонка должна обновляться вместе с названием
func TestListPaintings_TitleFilterAfterRename(t *testing.T) {
	db := newTestDB(t)
	svc := newTestPaintingService(t)

	created, err := svc.CreatePainting(db, &dto.CreatePaintingRequest{Title: "Старое название"})
	require.NoError(t, err)

	_, err = svc.UpdatePainting(db, created.ID, &dto.UpdatePaintingRequest{
		Title: strPtr("Ночной дозор"),
	})
	require.NoError(t, err)

	found, err := svc.ListPaintings(db, &dto.PaintingSearchCriteria{Title: "ночной"}, "")
	require.NoError(t, err)
	require.Equal(t, int64(1), found.Total)
	assert.Equal(t, "Ночной дозор", found.Paintings[0].Title)

	stale, err := svc.ListPaintings(db, &dto.PaintingSearchCriteria{Title: "старое"}, "")
	require.NoError(t, err)
	assert.Zero(t, stale.Total)
}

func TestListPaintings_DraftInfoForClient(t *testing.T) {
	db := newTestDB(t)
	svc := newTestPaintingService(t)
	expertiseSvc := newTestExpertiseService()
	user := createTestUser(t, db, models.UserRoleClient)
	painting := createTestPainting(t, db, "Боярыня Морозова")

	// Аноним черновика не видит
	resp, err := svc.ListPaintings(db, &dto.PaintingSearchCriteria{}, "")
	require.NoError(t, err)
	assert.Nil(t, resp.DraftID)
	assert.Zero(t, resp.DraftItemCount)

	// У клиента без черновика - тоже пусто
	resp, err = svc.ListPaintings(db, &dto.PaintingSearchCriteria{}, user.ID)
	require.NoError(t, err)
	assert.Nil(t, resp.DraftID)

	draft, err := expertiseSvc.AddPaintingToDraft(db, user.ID, painting.ID)
	require.NoError(t, err)

	resp, err = svc.ListPaintings(db, &dto.PaintingSearchCriteria{}, user.ID)
	require.NoError(t, err)
	require.NotNil(t, resp.DraftID)
	assert.Equal(t, draft.ID, *resp.DraftID)
	assert.Equal(t, int64(1), resp.DraftItemCount)
}

func TestListPaintings_Pagination(t *testing.T) {
	db := newTestDB(t)
	svc := newTestPaintingService(t)

	for _, title := range []string{"А", "Б", "В", "Г", "Д"} {
		createTestPainting(t, db, title)
	}

	page1, err := svc.ListPaintings(db, &dto.PaintingSearchCriteria{Page: 1, PageSize: 2}, "")
	require.NoError(t, err)
	assert.Equal(t, int64(5), page1.Total)
	assert.Len(t, page1.Paintings, 2)

	page3, err := svc.ListPaintings(db, &dto.PaintingSearchCriteria{Page: 3, PageSize: 2}, "")
	require.NoError(t, err)
	assert.Len(t, page3.Paintings, 1)
}

func TestDeletePainting_BlockedByActiveReference(t *testing.T) {
	db := newTestDB(t)
	svc := newTestPaintingService(t)
	expertiseSvc := newTestExpertiseService()
	user := createTestUser(t, db, models.UserRoleClient)
	painting := createTestPainting(t, db, "Охотники на привале")

	_, err := expertiseSvc.AddPaintingToDraft(db, user.ID, painting.ID)
	require.NoError(t, err)

	// Картина в черновике - удалять нельзя
	err = svc.DeletePainting(context.Background(), db, painting.ID)
	assert.ErrorIs(t, err, apperrors.ErrPaintingInUse)

	// Картина все еще на месте
	_, err = svc.GetPainting(db, painting.ID)
	require.NoError(t, err)
}

func TestDeletePainting_AllowedAfterDraftDeleted(t *testing.T) {
	db := newTestDB(t)
	svc := newTestPaintingService(t)
	expertiseSvc := newTestExpertiseService()
	user := createTestUser(t, db, models.UserRoleClient)
	painting := createTestPainting(t, db, "Неравный брак")

	draft, err := expertiseSvc.AddPaintingToDraft(db, user.ID, painting.ID)
	require.NoError(t, err)
	require.NoError(t, expertiseSvc.DeleteDraft(db, user.ID, draft.ID))

	// Ссылки остались только у удаленной заявки - удаление разрешено,
	// её элементы чистятся каскадом
	require.NoError(t, svc.DeletePainting(context.Background(), db, painting.ID))

	var itemCount int64
	db.Model(&models.ExpertiseItem{}).Where("painting_id = ?", painting.ID).Count(&itemCount)
	assert.Zero(t, itemCount)
}

func TestUploadImage(t *testing.T) {
	db := newTestDB(t)
	svc := newTestPaintingService(t)
	painting := createTestPainting(t, db, "Портрет неизвестной")

	resp, err := svc.UploadImage(
		context.Background(), db, painting.ID,
		strings.NewReader("fake-image-bytes"), "portrait.jpg", "image/jpeg")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ImageURL)

	var stored models.Painting
	require.NoError(t, db.First(&stored, "id = ?", painting.ID).Error)
	firstKey := stored.ImageKey
	assert.NotEmpty(t, firstKey)

	// Повторная загрузка подменяет объект
	_, err = svc.UploadImage(
		context.Background(), db, painting.ID,
		strings.NewReader("new-image-bytes"), "portrait2.png", "image/png")
	require.NoError(t, err)

	require.NoError(t, db.First(&stored, "id = ?", painting.ID).Error)
	assert.NotEqual(t, firstKey, stored.ImageKey)
}
