package handlers

import (
	"net/http"
	"time"

	"restaurant_web/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type PublicHandler struct {
	orders        services.OrderService
	reservations  services.ReservationService
	menu          services.MenuService
	gallery       services.GalleryService
	contact       services.ContactService
	settings      services.SettingsService
	announcements services.AnnouncementService
	logger        *logrus.Logger
	now           func() time.Time
}

func NewPublicHandler(
	orders services.OrderService,
	reservations services.ReservationService,
	menu services.MenuService,
	gallery services.GalleryService,
	contact services.ContactService,
	settings services.SettingsService,
	announcements services.AnnouncementService,
	logger *logrus.Logger,
) *PublicHandler {
	return &PublicHandler{
		orders:        orders,
		reservations:  reservations,
		menu:          menu,
		gallery:       gallery,
		contact:       contact,
		settings:      settings,
		announcements: announcements,
		logger:        logger,
		now:           time.Now,
	}
}

type cancelRequest struct {
	Reference string `json:"reference"`
	Phone     string `json:"phone"`
}

func (h *PublicHandler) CreateOrder(c *gin.Context) {
	var req services.CreateOrderRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	order, err := h.orders.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusCreated, gin.H{"order": order, "reference": order.Reference})
}

func (h *PublicHandler) TrackOrder(c *gin.Context) {
	tracking, err := h.orders.Track(c.Request.Context(), c.Param("reference"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, tracking)
}

func (h *PublicHandler) CancelOrder(c *gin.Context) {
	var req cancelRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	result, err := h.orders.CancelByReference(c.Request.Context(), req.Reference, req.Phone, h.now())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, result)
}

func (h *PublicHandler) CreateReservation(c *gin.Context) {
	var req services.CreateReservationRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	reservation, err := h.reservations.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusCreated, gin.H{"reservation": reservation, "reference": reservation.Reference})
}

func (h *PublicHandler) TrackReservation(c *gin.Context) {
	tracking, err := h.reservations.Track(c.Request.Context(), c.Param("reference"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, tracking)
}

func (h *PublicHandler) CancelReservation(c *gin.Context) {
	var req cancelRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	result, err := h.reservations.CancelByReference(c.Request.Context(), req.Reference, req.Phone, h.now())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, result)
}

func (h *PublicHandler) Menu(c *gin.Context) {
	categories, err := h.menu.PublicMenu(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, categories)
}

func (h *PublicHandler) MenuItem(c *gin.Context) {
	id, ok := paramID(c, h.logger, "id")
	if !ok {
		return
	}
	item, err := h.menu.GetItem(c.Request.Context(), id)
	if err == nil && !item.Available {
		err = services.NotFound("menu item not found")
	}
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, item)
}

func (h *PublicHandler) Gallery(c *gin.Context) {
	images, err := h.gallery.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, images)
}

func (h *PublicHandler) Contact(c *gin.Context) {
	var req services.ContactRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	message, err := h.contact.Submit(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusCreated, gin.H{"id": message.ID})
}

func (h *PublicHandler) Settings(c *gin.Context) {
	settings, err := h.settings.Public(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, settings)
}

func (h *PublicHandler) Announcement(c *gin.Context) {
	announcement, err := h.announcements.Active(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, announcement)
}
