package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"localstay-server/models"
	"localstay-server/storage"
	"localstay-server/utils"

	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// buildTestApp wires a minimal Iris app with the real routes, JWT verifier
// and an in-memory database behind storage.DB.
func buildTestApp(t *testing.T) *iris.Application {
	t.Helper()
	os.Setenv("ACCESS_TOKEN_SECRET", "testsecret")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Stay{}, &models.Booking{}, &models.Notification{}, &models.AuditLog{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	storage.DB = db

	app := iris.New()
	app.Configure(iris.WithoutPathCorrectionRedirection)
	app.Validator = validator.New()

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	verify := accessTokenVerifier.Verify(func() interface{} { return new(utils.AccessToken) })

	stays := app.Party("/stays")
	{
		stays.Get("/", GetStays)
		stays.Get("/{id:uint}", GetStay)
		stays.Post("/", verify, utils.HostOnlyMiddleware, CreateStay)
		stays.Delete("/{id:uint}", verify, DeleteStay)
	}

	bookings := app.Party("/bookings")
	{
		bookings.Post("/", verify, utils.TravelerOnlyMiddleware, CreateBooking)
		bookings.Get("/my-bookings", verify, GetMyBookings)
		bookings.Get("/owner-requests", verify, utils.HostOnlyMiddleware, GetOwnerRequests)
		bookings.Post("/{id:uint}/action", verify, utils.HostOnlyMiddleware, HandleBookingAction)
	}

	admin := app.Party("/admin", verify, utils.AdminOnlyMiddleware)
	{
		admin.Post("/verify-owner/{id:uint}", VerifyOwner)
		admin.Get("/all-owners", GetAllOwners)
	}

	if err := app.Build(); err != nil {
		t.Fatalf("build app: %v", err)
	}
	return app
}

func signTestToken(t *testing.T, id uint, role string) string {
	t.Helper()
	signer := jwt.NewSigner(jwt.HS256, os.Getenv("ACCESS_TOKEN_SECRET"), time.Hour)
	token, err := signer.Sign(utils.AccessToken{ID: id, Role: role})
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return string(token)
}

func seedUser(t *testing.T, role, verification, email string) models.User {
	t.Helper()
	user := models.User{Name: role, Email: email, Role: role, VerificationStatus: verification}
	if err := storage.DB.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func seedStay(t *testing.T, hostID uint) models.Stay {
	t.Helper()
	images, _ := json.Marshal([]string{"https://img.example/a.jpg"})
	active := true
	stay := models.Stay{HostID: hostID, Name: "Test Stay", Location: "Nouakchott", PricePerNight: 100, Images: images, IsActive: &active}
	if err := storage.DB.Create(&stay).Error; err != nil {
		t.Fatalf("seed stay: %v", err)
	}
	return stay
}

func doJSON(t *testing.T, app *iris.Application, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	return resp
}

func TestAdminEndpointsRBAC(t *testing.T) {
	app := buildTestApp(t)
	admin := seedUser(t, models.RoleAdmin, "", "admin@example.com")
	host := seedUser(t, models.RoleHost, models.VerificationUnverified, "host@example.com")
	traveler := seedUser(t, models.RoleTraveler, "", "traveler@example.com")

	// No token.
	resp := doJSON(t, app, http.MethodGet, "/admin/all-owners", "", "")
	if resp.Code == http.StatusOK {
		t.Fatalf("expected non-200 without token, got %d", resp.Code)
	}

	// Traveler token -> 403.
	resp = doJSON(t, app, http.MethodGet, "/admin/all-owners", signTestToken(t, traveler.ID, models.RoleTraveler), "")
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for traveler, got %d", resp.Code)
	}

	// Admin verifies the host.
	resp = doJSON(t, app, http.MethodPost, "/admin/verify-owner/"+itoa(host.ID), signTestToken(t, admin.ID, models.RoleAdmin), "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin verify, got %d: %s", resp.Code, resp.Body.String())
	}

	var reloaded models.User
	storage.DB.First(&reloaded, host.ID)
	if reloaded.VerificationStatus != models.VerificationVerified {
		t.Fatalf("host status = %q, want verified", reloaded.VerificationStatus)
	}
}

func TestBookingFlowOverHTTP(t *testing.T) {
	app := buildTestApp(t)
	host := seedUser(t, models.RoleHost, models.VerificationVerified, "host@example.com")
	traveler := seedUser(t, models.RoleTraveler, "", "traveler@example.com")
	stay := seedStay(t, host.ID)

	travelerToken := signTestToken(t, traveler.ID, models.RoleTraveler)
	hostToken := signTestToken(t, host.ID, models.RoleHost)

	// Traveler files a request.
	body := `{"stay_id": ` + itoa(stay.ID) + `, "check_in": "2027-06-01", "check_out": "2027-06-05", "guests": 2}`
	resp := doJSON(t, app, http.MethodPost, "/bookings/", travelerToken, body)
	if resp.Code != http.StatusOK {
		t.Fatalf("create booking: %d: %s", resp.Code, resp.Body.String())
	}

	var created struct {
		ID         uint   `json:"ID"`
		Status     string `json:"status"`
		TotalPrice int    `json:"total_price"`
		CheckIn    string `json:"check_in"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode booking: %v", err)
	}
	if created.Status != models.BookingRequested {
		t.Fatalf("status = %q, want REQUESTED", created.Status)
	}
	if created.TotalPrice != 400 {
		t.Fatalf("total_price = %d, want 400", created.TotalPrice)
	}
	if created.CheckIn != "2027-06-01" {
		t.Fatalf("check_in = %q, want plain calendar date", created.CheckIn)
	}

	// A host cannot hit the traveler-only endpoint.
	resp = doJSON(t, app, http.MethodPost, "/bookings/", hostToken, body)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("host create booking = %d, want 403", resp.Code)
	}

	// Host sees the request with traveler contact fields.
	resp = doJSON(t, app, http.MethodGet, "/bookings/owner-requests", hostToken, "")
	if resp.Code != http.StatusOK {
		t.Fatalf("owner-requests: %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "traveler@example.com") {
		t.Fatalf("owner-requests missing traveler contact: %s", resp.Body.String())
	}

	// Host accepts.
	resp = doJSON(t, app, http.MethodPost, "/bookings/"+itoa(created.ID)+"/action", hostToken, `{"action": "accept"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("accept: %d: %s", resp.Code, resp.Body.String())
	}
	if !strings.Contains(resp.Body.String(), models.BookingAccepted) {
		t.Fatalf("accept response missing ACCEPTED: %s", resp.Body.String())
	}

	// Second accept -> 409 with a detail message.
	resp = doJSON(t, app, http.MethodPost, "/bookings/"+itoa(created.ID)+"/action", hostToken, `{"action": "accept"}`)
	if resp.Code != http.StatusConflict {
		t.Fatalf("re-accept = %d, want 409", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "detail") {
		t.Fatalf("error payload missing detail field: %s", resp.Body.String())
	}

	// Traveler's list shows the accepted booking.
	resp = doJSON(t, app, http.MethodGet, "/bookings/my-bookings", travelerToken, "")
	if resp.Code != http.StatusOK {
		t.Fatalf("my-bookings: %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), models.BookingAccepted) {
		t.Fatalf("my-bookings missing accepted booking: %s", resp.Body.String())
	}
}

func TestStayDeleteCascadeOverHTTP(t *testing.T) {
	app := buildTestApp(t)
	host := seedUser(t, models.RoleHost, models.VerificationVerified, "host@example.com")
	traveler := seedUser(t, models.RoleTraveler, "", "traveler@example.com")
	stay := seedStay(t, host.ID)

	travelerToken := signTestToken(t, traveler.ID, models.RoleTraveler)
	hostToken := signTestToken(t, host.ID, models.RoleHost)

	body := `{"stay_id": ` + itoa(stay.ID) + `, "check_in": "2027-06-01", "check_out": "2027-06-05", "guests": 2}`
	if resp := doJSON(t, app, http.MethodPost, "/bookings/", travelerToken, body); resp.Code != http.StatusOK {
		t.Fatalf("create booking: %d", resp.Code)
	}

	if resp := doJSON(t, app, http.MethodDelete, "/stays/"+itoa(stay.ID), hostToken, ""); resp.Code != http.StatusOK {
		t.Fatalf("delete stay: %d", resp.Code)
	}

	resp := doJSON(t, app, http.MethodGet, "/bookings/my-bookings", travelerToken, "")
	if resp.Code != http.StatusOK {
		t.Fatalf("my-bookings: %d", resp.Code)
	}
	var list []json.RawMessage
	if err := json.Unmarshal(resp.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode my-bookings: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("bookings after cascade delete = %d, want 0", len(list))
	}

	if resp := doJSON(t, app, http.MethodGet, "/stays/"+itoa(stay.ID), "", ""); resp.Code != http.StatusNotFound {
		t.Fatalf("deleted stay fetch = %d, want 404", resp.Code)
	}
}

func TestBookingGuestCapFollowsStay(t *testing.T) {
	app := buildTestApp(t)
	host := seedUser(t, models.RoleHost, models.VerificationVerified, "host@example.com")
	traveler := seedUser(t, models.RoleTraveler, "", "traveler@example.com")
	stay := seedStay(t, host.ID)
	if err := storage.DB.Model(&stay).Update("max_guests", 20).Error; err != nil {
		t.Fatalf("set max_guests: %v", err)
	}

	travelerToken := signTestToken(t, traveler.ID, models.RoleTraveler)

	// Within the stay's own cap, even though it exceeds the global default.
	body := `{"stay_id": ` + itoa(stay.ID) + `, "check_in": "2027-06-01", "check_out": "2027-06-05", "guests": 18}`
	resp := doJSON(t, app, http.MethodPost, "/bookings/", travelerToken, body)
	if resp.Code != http.StatusOK {
		t.Fatalf("18 guests on a 20-guest stay = %d: %s", resp.Code, resp.Body.String())
	}

	// Above the stay's cap.
	body = `{"stay_id": ` + itoa(stay.ID) + `, "check_in": "2027-07-01", "check_out": "2027-07-05", "guests": 21}`
	resp = doJSON(t, app, http.MethodPost, "/bookings/", travelerToken, body)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("21 guests on a 20-guest stay = %d, want 400", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "20") {
		t.Fatalf("cap error should name the stay's cap: %s", resp.Body.String())
	}
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
