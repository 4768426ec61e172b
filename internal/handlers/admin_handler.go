package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"restaurant_web/internal/models"
	"restaurant_web/internal/repository"
	"restaurant_web/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type AdminHandler struct {
	orders        services.OrderService
	reservations  services.ReservationService
	menu          services.MenuService
	gallery       services.GalleryService
	contact       services.ContactService
	settings      services.SettingsService
	announcements services.AnnouncementService
	users         services.UserService
	dashboard     services.DashboardService
	location      *time.Location
	logger        *logrus.Logger
}

type AdminServices struct {
	Orders        services.OrderService
	Reservations  services.ReservationService
	Menu          services.MenuService
	Gallery       services.GalleryService
	Contact       services.ContactService
	Settings      services.SettingsService
	Announcements services.AnnouncementService
	Users         services.UserService
	Dashboard     services.DashboardService
}

func NewAdminHandler(svc AdminServices, location *time.Location, logger *logrus.Logger) *AdminHandler {
	if location == nil {
		location = time.UTC
	}
	return &AdminHandler{
		orders:        svc.Orders,
		reservations:  svc.Reservations,
		menu:          svc.Menu,
		gallery:       svc.Gallery,
		contact:       svc.Contact,
		settings:      svc.Settings,
		announcements: svc.Announcements,
		users:         svc.Users,
		dashboard:     svc.Dashboard,
		location:      location,
		logger:        logger,
	}
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *AdminHandler) orderFilter(c *gin.Context) (repository.OrderFilter, error) {
	filter := repository.OrderFilter{
		Status: models.OrderStatus(strings.ToUpper(strings.TrimSpace(c.Query("status")))),
		Phone:  strings.TrimSpace(c.Query("phone")),
		Page:   queryInt(c, "page", 1),
		Limit:  queryInt(c, "limit", repository.DefaultPageSize),
	}
	for name, target := range map[string]**time.Time{"from": &filter.From, "to": &filter.To} {
		raw := c.Query(name)
		if raw == "" {
			continue
		}
		day, err := time.ParseInLocation("2006-01-02", raw, h.location)
		if err != nil {
			return filter, services.NewValidationError("invalid date", map[string]string{name: "must be a date in YYYY-MM-DD format"})
		}
		if name == "to" {
			day = day.AddDate(0, 0, 1)
		}
		*target = &day
	}
	return filter, nil
}

func (h *AdminHandler) ListOrders(c *gin.Context) {
	filter, err := h.orderFilter(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	orders, total, err := h.orders.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	pageNum, limit := repository.NormalizePage(filter.Page, filter.Limit)
	respond(c, http.StatusOK, page{Items: orders, Total: total, Page: pageNum, Limit: limit})
}

func (h *AdminHandler) GetOrder(c *gin.Context) {
	id, ok := paramID(c, h.logger, "id")
	if !ok {
		return
	}
	order, err := h.orders.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, order)
}

func (h *AdminHandler) UpdateOrderStatus(c *gin.Context) {
	id, ok := paramID(c, h.logger, "id")
	if !ok {
		return
	}
	var req statusRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	status := models.OrderStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
	order, err := h.orders.UpdateStatus(c.Request.Context(), id, status, actorName(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"order": order})
}

func (h *AdminHandler) DeleteOrder(c *gin.Context) {
	id, ok := paramID(c, h.logger, "id")
	if !ok {
		return
	}
	if err := h.orders.Delete(c.Request.Context(), id, actorName(c)); err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *AdminHandler) ExportOrders(c *gin.Context) {
	filter, err := h.orderFilter(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	var buf bytes.Buffer
	if _, err := services.ExportOrders(c.Request.Context(), h.orders, filter, &buf); err != nil {
		respondError(c, h.logger, err)
		return
	}
	filename := fmt.Sprintf("orders-%s.xlsx", time.Now().In(h.location).Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h *AdminHandler) ListReservations(c *gin.Context) {
	filter := repository.ReservationFilter{
		Status: models.ReservationStatus(strings.ToUpper(strings.TrimSpace(c.Query("status")))),
		Date:   strings.TrimSpace(c.Query("date")),
		Page:   queryInt(c, "page", 1),
		Limit:  queryInt(c, "limit", repository.DefaultPageSize),
	}
	reservations, total, err := h.reservations.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	pageNum, limit := repository.NormalizePage(filter.Page, filter.Limit)
	respond(c, http.StatusOK, page{Items: reservations, Total: total, Page: pageNum, Limit: limit})
}

func (h *AdminHandler) GetReservation(c *gin.Context) {
	id, ok := paramID(c, h.logger, "id")
	if !ok {
		return
	}
	reservation, err := h.reservations.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, reservation)
}

func (h *AdminHandler) UpdateReservationStatus(c *gin.Context) {
	id, ok := paramID(c, h.logger, "id")
	if !ok {
		return
	}
	var req statusRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	status := models.ReservationStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
	reservation, err := h.reservations.UpdateStatus(c.Request.Context(), id, status, actorName(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"reservation": reservation})
}

func (h *AdminHandler) DeleteReservation(c *gin.Context) {
	id, ok := paramID(c, h.logger, "id")
	if !ok {
		return
	}
	if err := h.reservations.Delete(c.Request.Context(), id, actorName(c)); err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *AdminHandler) Dashboard(c *gin.Context) {
	summary, err := h.dashboard.Summary(c.Request.Context(), time.Now())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, summary)
}
