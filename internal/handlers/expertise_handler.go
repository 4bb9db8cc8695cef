package handlers

import (
	"net/http"

	"artexpertise_backend/internal/middleware"
	"artexpertise_backend/internal/models"
	"artexpertise_backend/internal/services"
	"artexpertise_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ExpertiseHandler struct {
	*BaseHandler
	expertiseService *services.ExpertiseService
}

func NewExpertiseHandler(base *BaseHandler, expertiseService *services.ExpertiseService) *ExpertiseHandler {
	return &ExpertiseHandler{
		BaseHandler:      base,
		expertiseService: expertiseService,
	}
}

func (h *ExpertiseHandler) RegisterRoutes(rg *gin.RouterGroup) {
	expertises := rg.Group("/expertises")
	expertises.Use(middleware.AuthMiddleware())
	{
		expertises.GET("", h.List)
		expertises.GET("/draft", h.GetDraft)
		expertises.GET("/:id", h.Get)
		expertises.PATCH("/:id", h.Update)
		expertises.PUT("/:id/submit", h.Submit)
		expertises.DELETE("/:id", h.Delete)

		expertises.PATCH("/:id/items/:painting_id", h.UpdateItem)
		expertises.DELETE("/:id/items/:painting_id", h.RemoveItem)

		expertises.PUT("/:id/resolve",
			middleware.RequireRoles(models.UserRoleManager), h.Resolve)
	}
}

func (h *ExpertiseHandler) List(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var criteria dto.ExpertiseSearchCriteria
	if !h.BindAndValidateQuery(c, &criteria) {
		return
	}

	db := h.GetDB(c)

	expertises, err := h.expertiseService.List(db, userID, h.IsManager(c), &criteria)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"expertises": expertises})
}

// GetDraft возвращает черновик пользователя, создавая его при отсутствии
func (h *ExpertiseHandler) GetDraft(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	db := h.GetDB(c)

	draft, err := h.expertiseService.GetOrCreateDraft(db, userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, draft)
}

func (h *ExpertiseHandler) Get(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	db := h.GetDB(c)

	expertise, err := h.expertiseService.Get(db, userID, h.IsManager(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, expertise)
}

func (h *ExpertiseHandler) Update(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateExpertiseRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	db := h.GetDB(c)

	expertise, err := h.expertiseService.UpdateDraft(db, userID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, expertise)
}

func (h *ExpertiseHandler) Submit(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	db := h.GetDB(c)

	expertise, err := h.expertiseService.Submit(c.Request.Context(), db, userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, expertise)
}

func (h *ExpertiseHandler) Resolve(c *gin.Context) {
	managerID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.ResolveExpertiseRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	db := h.GetDB(c)

	expertise, err := h.expertiseService.Resolve(
		c.Request.Context(), db, managerID, c.Param("id"), req.Outcome)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, expertise)
}

func (h *ExpertiseHandler) Delete(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	db := h.GetDB(c)

	if err := h.expertiseService.DeleteDraft(db, userID, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Draft deleted"})
}

func (h *ExpertiseHandler) UpdateItem(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateItemRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	db := h.GetDB(c)

	expertise, err := h.expertiseService.UpdateItemComment(
		db, userID, c.Param("id"), c.Param("painting_id"), req.Comment)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, expertise)
}

func (h *ExpertiseHandler) RemoveItem(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	db := h.GetDB(c)

	expertise, err := h.expertiseService.RemoveItem(
		db, userID, c.Param("id"), c.Param("painting_id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, expertise)
}
