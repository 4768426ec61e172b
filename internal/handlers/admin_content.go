package handlers

import (
	"net/http"
	"strconv"

	"restaurant_web/internal/repository"
	"restaurant_web/internal/services"

	"github.com/gin-gonic/gin"
)

func (h *AdminHandler) ListCategories(c *gin.Context) {
	categories, err := h.menu.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, categories)
}

func (h *AdminHandler) CreateCategory(c *gin.Context) {
	var req services.CategoryRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	category, err := h.menu.CreateCategory(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusCreated, category)
}

func (h *AdminHandler) UpdateCategory(c *gin.Context) {
	id, ok := paramID(c, h.logger, "id")
	if !ok {
		return
	}
	var req services.CategoryRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	category, err := h.menu.UpdateCategory(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, category)
}

func (h *AdminHandler) DeleteCategory(c *gin.Context) {
	id, ok := paramID(c, h.logger, "id")
	if !ok {
		return
	}
	if err := h.menu.DeleteCategory(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *AdminHandler) ListMenuItems(c *gin.Context) {
	filter := repository.MenuItemFilter{Search: c.Query("search")}
	if v, err := strconv.ParseUint(c.Query("categoryId"), 10, 64); err == nil {
		filter.CategoryID = uint(v)
	}
	if v, err := strconv.ParseBool(c.Query("available")); err == nil {
		filter.Available = &v
	}
	if v, err := strconv.ParseBool(c.Query("featured")); err == nil {
		filter.Featured = &v
	}
	items, err := h.menu.ListItems(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, items)
}

func (h *AdminHandler) CreateMenuItem(c *gin.Context) {
	var req services.MenuItemRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, h.logger, services.NewValidationError("invalid request body", nil))
		return
	}
	image, closeImage, err := formUpload(c, "image")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	defer closeImage()

	item, err := h.menu.CreateItem(c.Request.Context(), req, image)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusCreated, item)
}

func (h *AdminHandler) UpdateMenuItem(c *gin.Context) {
	id, ok := paramID(c, h.logger, "id")
	if !ok {
		return
	}
	var req services.MenuItemRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, h.logger, services.NewValidationError("invalid request body", nil))
		return
	}
	image, closeImage, err := formUpload(c, "image")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	defer closeImage()

	item, err := h.menu.UpdateItem(c.Request.Context(), id, req, image)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, item)
}

func (h *AdminHandler) DeleteMenuItem(c *gin.Context) {
	id, ok := paramID(c, h.logger, "id")
	if !ok {
		return
	}
	if err := h.menu.DeleteItem(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *AdminHandler) ImportMenuItems(c *gin.Context) {
	file, closeFile, err := formUpload(c, "file")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	defer closeFile()
	if file == nil {
		respondError(c, h.logger, services.NewValidationError("Excel file is required", map[string]string{"file": "is required"}))
		return
	}

	result, err := h.menu.ImportItems(c.Request.Context(), file)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, result)
}

func (h *AdminHandler) ListGallery(c *gin.Context) {
	images, err := h.gallery.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, images)
}

func (h *AdminHandler) CreateGalleryImage(c *gin.Context) {
	var req services.GalleryRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, h.logger, services.NewValidationError("invalid request body", nil))
		return
	}
	image, closeImage, err := formUpload(c, "image")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	defer closeImage()

	entry, err := h.gallery.Create(c.Request.Context(), req, image)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusCreated, entry)
}

func (h *AdminHandler) UpdateGalleryImage(c *gin.Context) {
	id, ok := paramID(c, h.logger, "id")
	if !ok {
		return
	}
	var req services.GalleryRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, h.logger, services.NewValidationError("invalid request body", nil))
		return
	}
	image, closeImage, err := formUpload(c, "image")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	defer closeImage()

	entry, err := h.gallery.Update(c.Request.Context(), id, req, image)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, entry)
}

func (h *AdminHandler) DeleteGalleryImage(c *gin.Context) {
	id, ok := paramID(c, h.logger, "id")
	if !ok {
		return
	}
	if err := h.gallery.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *AdminHandler) ListMessages(c *gin.Context) {
	unread, _ := strconv.ParseBool(c.Query("unread"))
	pageNum, limit := repository.NormalizePage(queryInt(c, "page", 1), queryInt(c, "limit", repository.DefaultPageSize))
	messages, total, err := h.contact.List(c.Request.Context(), unread, pageNum, limit)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, page{Items: messages, Total: total, Page: pageNum, Limit: limit})
}

func (h *AdminHandler) MarkMessageRead(c *gin.Context) {
	id, ok := paramID(c, h.logger, "id")
	if !ok {
		return
	}
	if err := h.contact.MarkRead(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"read": true})
}

func (h *AdminHandler) DeleteMessage(c *gin.Context) {
	id, ok := paramID(c, h.logger, "id")
	if !ok {
		return
	}
	if err := h.contact.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *AdminHandler) GetSettings(c *gin.Context) {
	settings, err := h.settings.Resolve(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, settings)
}

func (h *AdminHandler) UpdateSettings(c *gin.Context) {
	var req services.UpdateSettingsRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	settings, err := h.settings.Update(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, settings)
}

func (h *AdminHandler) GetAnnouncement(c *gin.Context) {
	announcement, err := h.announcements.Current(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, announcement)
}

func (h *AdminHandler) SaveAnnouncement(c *gin.Context) {
	var req services.AnnouncementRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	announcement, err := h.announcements.Save(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, announcement)
}

func (h *AdminHandler) ListAnnouncements(c *gin.Context) {
	announcements, err := h.announcements.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, announcements)
}

func (h *AdminHandler) CreateAnnouncement(c *gin.Context) {
	var req services.AnnouncementRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	announcement, err := h.announcements.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusCreated, announcement)
}

func (h *AdminHandler) ActivateAnnouncement(c *gin.Context) {
	id, ok := paramID(c, h.logger, "id")
	if !ok {
		return
	}
	announcement, err := h.announcements.Activate(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, announcement)
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.users.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, users)
}

func (h *AdminHandler) CreateUser(c *gin.Context) {
	var req services.CreateUserRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	user, err := h.users.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusCreated, user)
}

func (h *AdminHandler) UpdateUser(c *gin.Context) {
	id, ok := paramID(c, h.logger, "id")
	if !ok {
		return
	}
	var req services.UpdateUserRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	user, err := h.users.Update(c.Request.Context(), currentPrincipal(c).UserID, id, req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, user)
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id, ok := paramID(c, h.logger, "id")
	if !ok {
		return
	}
	if err := h.users.Delete(c.Request.Context(), currentPrincipal(c).UserID, id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"deleted": true})
}
