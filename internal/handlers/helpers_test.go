package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"restaurant_web/internal/events"
	"restaurant_web/internal/models"
	"restaurant_web/internal/repository"
	"restaurant_web/internal/services"
	"restaurant_web/internal/storage"
	"restaurant_web/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testWebhookSecret = "hook-secret"

type sentText struct {
	Phone   string
	Message string
}

type stubSender struct {
	mu   sync.Mutex
	err  error
	sent []sentText
}

func (s *stubSender) SendTextMessage(_ context.Context, phone, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, sentText{Phone: phone, Message: message})
	return nil
}

func (s *stubSender) last() sentText {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.sent) == 0 {
		return sentText{}
	}
	return s.sent[len(s.sent)-1]
}

// testServer is the full router over a private SQLite database.
type testServer struct {
	router     *gin.Engine
	db         *gorm.DB
	users      services.UserService
	auth       services.AuthService
	orders     services.OrderService
	sender     *stubSender
	uploadDir  string
	adminToken string
	staffToken string
}

type serverOption func(*RouterDeps)

func withLimiter(limiter Limiter, perMinute int) serverOption {
	return func(deps *RouterDeps) {
		deps.Limiter = limiter
		deps.RateLimit = perMinute
	}
}

func newTestServer(t *testing.T, opts ...serverOption) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)
	logger := testutil.Logger()
	uploadDir := t.TempDir()
	store := storage.NewLocalStore(uploadDir, "http://localhost")
	notifier := services.NewNotificationService(nil, nil, "", logger)
	publisher := events.Noop()

	userRepo := repository.NewUserRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	reservationRepo := repository.NewReservationRepository(db)
	contactRepo := repository.NewContactRepository(db)

	settings := services.NewSettingsService(repository.NewSettingsRepository(db), nil, 0, logger)
	users := services.NewUserService(userRepo, "962", logger)
	auth := services.NewAuthService(userRepo, "handler-secret", time.Hour, logger)
	orders := services.NewOrderService(orderRepo, settings, publisher, notifier, logger)
	reservations := services.NewReservationService(reservationRepo, settings, publisher, notifier, time.UTC, logger)
	menu := services.NewMenuService(repository.NewMenuRepository(db), store, logger)
	gallery := services.NewGalleryService(repository.NewGalleryRepository(db), store, logger)
	contact := services.NewContactService(contactRepo, publisher, notifier, logger)
	announcements := services.NewAnnouncementService(repository.NewAnnouncementRepository(db), logger)
	dashboard := services.NewDashboardService(orderRepo, repository.NewOrderItemRepository(db), reservationRepo, contactRepo, time.UTC)

	sender := &stubSender{}
	deps := RouterDeps{
		Auth:    auth,
		Public:  NewPublicHandler(orders, reservations, menu, gallery, contact, settings, announcements, logger),
		Session: NewAuthHandler(auth, false, logger),
		Admin: NewAdminHandler(AdminServices{
			Orders:        orders,
			Reservations:  reservations,
			Menu:          menu,
			Gallery:       gallery,
			Contact:       contact,
			Settings:      settings,
			Announcements: announcements,
			Users:         users,
			Dashboard:     dashboard,
		}, time.UTC, logger),
		WhatsApp:  NewWhatsAppHandler(sender, users, orders, reservations, testWebhookSecret, logger),
		UploadDir: uploadDir,
		Logger:    logger,
	}
	for _, opt := range opts {
		opt(&deps)
	}

	router := gin.New()
	Register(router, deps)

	srv := &testServer{
		router:    router,
		db:        db,
		users:     users,
		auth:      auth,
		orders:    orders,
		sender:    sender,
		uploadDir: uploadDir,
	}
	srv.adminToken = srv.createUser(t, "admin@example.com", models.RoleAdmin, "")
	srv.staffToken = srv.createUser(t, "staff@example.com", models.RoleStaff, "0795550000")
	return srv
}

// createUser adds an account and returns a session token for it.
func (s *testServer) createUser(t *testing.T, email string, role models.UserRole, whatsapp string) string {
	t.Helper()
	ctx := context.Background()
	_, err := s.users.Create(ctx, services.CreateUserRequest{
		Name:           email,
		Email:          email,
		Password:       "password123",
		Role:           role,
		WhatsAppNumber: whatsapp,
	})
	require.NoError(t, err)
	session, err := s.auth.Login(ctx, services.LoginRequest{Email: email, Password: "password123"})
	require.NoError(t, err)
	return session.Token
}

func (s *testServer) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool              `json:"success"`
	Data    json.RawMessage   `json:"data"`
	Error   string            `json:"error"`
	Details map[string]string `json:"details"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

func orderBody() map[string]interface{} {
	return map[string]interface{}{
		"name":         "Sara",
		"phone":        "0791234567",
		"deliveryType": "DELIVERY",
		"address":      "12 Rainbow St",
		"items": []map[string]interface{}{
			{"id": 1, "name": "Mansaf", "price": 12.5, "quantity": 2},
		},
	}
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
