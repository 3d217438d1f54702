package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"riskhub/internal/handlers"
	"riskhub/internal/logger"
	"riskhub/internal/middleware"
	"riskhub/internal/models"
	"riskhub/internal/rbac"
	"riskhub/internal/services"
	"riskhub/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:integrationdb%d?mode=memory&cache=shared&_busy_timeout=10000&_txlock=immediate", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.User{},
		&models.Risk{},
		&models.Assignment{},
		&models.RiskUpdate{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory
// SQLite, with the same routes and RBAC guards as the real server.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)

	// Services
	userService := services.NewUserService(db)
	auditService := services.NewAuditService(db)
	riskService := services.NewRiskService(db, auditService)
	assignmentService := services.NewAssignmentService(db, auditService)
	dashboardService := services.NewDashboardService(db)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService)
	userHandler := handlers.NewUserHandler(userService)
	riskHandler := handlers.NewRiskHandler(riskService, auditService)
	assignmentHandler := handlers.NewAssignmentHandler(assignmentService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.RefreshToken)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", middleware.RequireAction(rbac.ActionViewProfile), authHandler.GetProfile)

	risks := protected.Group("/risks")
	risks.POST("", middleware.RequireAction(rbac.ActionCreateRisk), riskHandler.CreateRisk)
	risks.GET("", middleware.RequireAction(rbac.ActionViewRisk), riskHandler.GetRisks)
	risks.GET("/:id", middleware.RequireAction(rbac.ActionViewRisk), riskHandler.GetRisk)
	risks.PUT("/:id", middleware.RequireAction(rbac.ActionUpdateRisk), riskHandler.UpdateRisk)
	risks.DELETE("/:id", middleware.RequireAction(rbac.ActionDeleteRisk), riskHandler.DeleteRisk)
	risks.GET("/:id/updates", middleware.RequireAction(rbac.ActionViewRisk), riskHandler.GetRiskUpdates)

	assignments := protected.Group("/assignments")
	assignments.POST("", middleware.RequireAction(rbac.ActionCreateAssignment), assignmentHandler.CreateAssignment)
	assignments.GET("", middleware.RequireAction(rbac.ActionViewAssignment), assignmentHandler.GetAssignments)
	assignments.GET("/:id", middleware.RequireAction(rbac.ActionViewAssignment), assignmentHandler.GetAssignment)
	assignments.PUT("/:id", middleware.RequireAction(rbac.ActionUpdateAssignment), assignmentHandler.UpdateAssignment)
	assignments.DELETE("/:id", middleware.RequireAction(rbac.ActionDeleteAssignment), assignmentHandler.DeleteAssignment)

	protected.GET("/dashboard", middleware.RequireAction(rbac.ActionViewDashboard), dashboardHandler.GetDashboard)
	protected.GET("/reports/risks", middleware.RequireAction(rbac.ActionViewReports), dashboardHandler.GetRiskReport)

	users := protected.Group("/users")
	users.Use(middleware.RequireAction(rbac.ActionManageUsers))
	users.GET("", userHandler.GetUsers)
	users.PUT("/:id/role", userHandler.UpdateUserRole)

	return &testApp{DB: db, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// registerUser registers a new user and returns the access token, refresh
// token, and user ID. The first user registered in a fresh app is the admin.
func (app *testApp) registerUser(t *testing.T, name, email, password string) (accessToken, refreshToken, userID string) {
	t.Helper()
	body := fmt.Sprintf(`{"name":%q,"email":%q,"password":%q}`, name, email, password)
	rec := app.request("POST", "/api/v1/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	return result["access_token"].(string), result["refresh_token"].(string), user["id"].(string)
}

// loginUser logs in and returns the access and refresh tokens.
func (app *testApp) loginUser(t *testing.T, email, password string) (accessToken, refreshToken string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	rec := app.request("POST", "/api/v1/auth/login", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	return result["access_token"].(string), result["refresh_token"].(string)
}

// registerWithRole registers a user, promotes them with the admin token, and
// logs them back in so the fresh token carries the new role.
func (app *testApp) registerWithRole(t *testing.T, adminToken, name, email string, role models.Role) (accessToken, userID string) {
	t.Helper()
	_, _, userID = app.registerUser(t, name, email, "password123")

	body := fmt.Sprintf(`{"role":%q}`, role)
	rec := app.request("PUT", "/api/v1/users/"+userID+"/role", body, adminToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("role promotion failed: %d %s", rec.Code, rec.Body.String())
	}

	accessToken, _ = app.loginUser(t, email, "password123")
	return accessToken, userID
}

// setupAdmin registers the first user of a fresh app and returns their token and ID.
func (app *testApp) setupAdmin(t *testing.T) (accessToken, userID string) {
	t.Helper()
	token, _, id := app.registerUser(t, "Admin", "admin@test.com", "password123")
	return token, id
}

// createRisk creates a risk through the API and returns its internal and
// human-readable IDs.
func (app *testApp) createRisk(t *testing.T, token string) (id, riskID string) {
	t.Helper()
	rec := app.request("POST", "/api/v1/risks", `{
		"risk_category": "Security",
		"risk_description": "Unpatched servers expose customer data.",
		"risk_source": "Internal Audit"
	}`, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create risk failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	risk := result["risk"].(map[string]interface{})
	return risk["id"].(string), risk["risk_id"].(string)
}
