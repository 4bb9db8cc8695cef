package handlers

import (
	"net/http"
	"strings"

	"artexpertise_backend/internal/config"
	"artexpertise_backend/internal/middleware"
	"artexpertise_backend/internal/models"
	"artexpertise_backend/internal/services"
	"artexpertise_backend/internal/services/dto"
	"artexpertise_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type PaintingHandler struct {
	*BaseHandler
	paintingService  *services.PaintingService
	expertiseService *services.ExpertiseService
}

func NewPaintingHandler(
	base *BaseHandler,
	paintingService *services.PaintingService,
	expertiseService *services.ExpertiseService,
) *PaintingHandler {
	return &PaintingHandler{
		BaseHandler:      base,
		paintingService:  paintingService,
		expertiseService: expertiseService,
	}
}

func (h *PaintingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	paintings := rg.Group("/paintings")
	{
		// Каталог публичный; авторизация опциональна и только
		// персонализирует список черновиком
		paintings.GET("", middleware.OptionalAuthMiddleware(), h.List)
		paintings.GET("/:id", h.Get)

		// Клиентская "корзина"
		paintings.POST("/:id/draft", middleware.AuthMiddleware(), h.AddToDraft)

		// Управление каталогом - только менеджер
		managed := paintings.Group("")
		managed.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.UserRoleManager))
		{
			managed.POST("", h.Create)
			managed.PUT("/:id", h.Update)
			managed.DELETE("/:id", h.Delete)
			managed.POST("/:id/image", h.UploadImage)
		}
	}
}

func (h *PaintingHandler) List(c *gin.Context) {
	var criteria dto.PaintingSearchCriteria
	if !h.BindAndValidateQuery(c, &criteria) {
		return
	}

	db := h.GetDB(c)

	response, err := h.paintingService.ListPaintings(db, &criteria, h.OptionalUserID(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *PaintingHandler) Get(c *gin.Context) {
	db := h.GetDB(c)

	painting, err := h.paintingService.GetPainting(db, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, painting)
}

func (h *PaintingHandler) Create(c *gin.Context) {
	var req dto.CreatePaintingRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	db := h.GetDB(c)

	painting, err := h.paintingService.CreatePainting(db, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, painting)
}

func (h *PaintingHandler) Update(c *gin.Context) {
	var req dto.UpdatePaintingRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	db := h.GetDB(c)

	painting, err := h.paintingService.UpdatePainting(db, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, painting)
}

func (h *PaintingHandler) Delete(c *gin.Context) {
	db := h.GetDB(c)

	if err := h.paintingService.DeletePainting(c.Request.Context(), db, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Painting deleted"})
}

// UploadImage принимает multipart-файл в поле "image"
func (h *PaintingHandler) UploadImage(c *gin.Context) {
	cfg := config.GetConfig()

	file, err := c.FormFile("image")
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Image file is required"))
		return
	}

	if cfg.Upload.MaxSize > 0 && file.Size > cfg.Upload.MaxSize {
		apperrors.HandleError(c, apperrors.NewBadRequestError("File is too large"))
		return
	}

	contentType := file.Header.Get("Content-Type")
	if !allowedContentType(cfg.Upload.AllowedTypes, contentType) {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Unsupported file type: "+contentType))
		return
	}

	src, err := file.Open()
	if err != nil {
		h.HandleServiceError(c, apperrors.InternalError(err))
		return
	}
	defer src.Close()

	db := h.GetDB(c)

	painting, err := h.paintingService.UploadImage(
		c.Request.Context(), db, c.Param("id"), src, file.Filename, contentType)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, painting)
}

// AddToDraft - добавление картины в черновик заявки текущего пользователя
func (h *PaintingHandler) AddToDraft(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	db := h.GetDB(c)

	draft, err := h.expertiseService.AddPaintingToDraft(db, userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, draft)
}

func allowedContentType(allowed []string, contentType string) bool {
	if len(allowed) == 0 {
		return strings.HasPrefix(contentType, "image/")
	}
	for _, t := range allowed {
		if strings.EqualFold(t, contentType) {
			return true
		}
	}
	return false
}
