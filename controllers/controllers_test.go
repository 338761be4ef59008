package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/fourwheels-api/config"
	"github.com/kendall-kelly/fourwheels-api/models"
	"github.com/kendall-kelly/fourwheels-api/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testSecret = "controllers-test-secret-012345"

func init() {
	services.PasswordCost = bcrypt.MinCost
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	return router
}

// setupTestDB installs a fresh in-memory database, token service and mock image store
func setupTestDB(t *testing.T) (*gorm.DB, *services.MockImageService) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	config.SetDB(db)

	services.SetTokenService(services.NewTokenService(testSecret, "fourwheels-api", "fourwheels-clients", time.Hour))

	images := services.NewMockImageService()
	images.SetAsMockForTesting()

	return db, images
}

// mockAuthMiddleware stores an identity the way the real authenticator does
func mockAuthMiddleware(userID uint, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", fmt.Sprint(userID))
		c.Set("user_role", role)
		c.Next()
	}
}

func performJSON(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewBuffer(raw)
	} else {
		reader = &bytes.Buffer{}
	}
	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// performMultipart sends fields plus an optional image file as multipart/form-data
func performMultipart(router *gin.Engine, method, path string, fields map[string]string, imageName string, image []byte) *httptest.ResponseRecorder {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range fields {
		_ = writer.WriteField(key, value)
	}
	if imageName != "" {
		part, _ := writer.CreateFormFile("image", imageName)
		_, _ = part.Write(image)
	}
	_ = writer.Close()

	req, _ := http.NewRequest(method, path, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response), w.Body.String())
	return response
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	response := decodeResponse(t, w)
	require.False(t, response["success"].(bool))
	return response["error"].(map[string]interface{})["code"].(string)
}

func seedUser(t *testing.T, db *gorm.DB, username, password, role string) models.User {
	hash, err := services.HashPassword(password)
	require.NoError(t, err)
	user := models.User{Username: username, Password: hash, PhoneNumber: "+15551234567", Role: role}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedAutomaker(t *testing.T, db *gorm.DB, name string) models.Automaker {
	automaker := models.Automaker{Name: name}
	require.NoError(t, db.Create(&automaker).Error)
	return automaker
}

func seedCar(t *testing.T, db *gorm.DB, automakerID uint, price string, status string) models.Car {
	car := models.Car{
		AutomakerID:     automakerID,
		Model:           "Corolla",
		Year:            2020,
		BodyStyle:       "Sedan",
		Price:           decimal.RequireFromString(price),
		Colour:          "White",
		EngineType:      "Petrol",
		Transmission:    "Automatic",
		Mileage:         15000,
		SeatingCapacity: 5,
		ImagePath:       "uploads/corolla.png",
		Status:          status,
	}
	require.NoError(t, db.Create(&car).Error)
	return car
}

func carFields(automakerID uint) map[string]string {
	return map[string]string{
		"automaker":       fmt.Sprint(automakerID),
		"model":           "Corolla",
		"year":            "2020",
		"bodyStyle":       "Sedan",
		"price":           "20000.50",
		"colour":          "White",
		"engineType":      "Petrol",
		"transmission":    "Automatic",
		"mileage":         "0",
		"seatingCapacity": "5",
	}
}
