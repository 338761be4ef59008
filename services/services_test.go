package services

import (
	"bytes"
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/kendall-kelly/fourwheels-api/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func init() {
	PasswordCost = bcrypt.MinCost
}

func setupTestDB(t *testing.T) *gorm.DB {
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
	return db
}

// testImage builds a multipart file header holding content under filename
func testImage(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="image"; filename="`+filename+`"`)
	h.Set("Content-Type", "image/png")
	part, err := writer.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	reader := multipart.NewReader(body, writer.Boundary())
	form, err := reader.ReadForm(int64(len(content)) + 1024)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })

	require.Len(t, form.File["image"], 1)
	return form.File["image"][0]
}

func seedAutomaker(t *testing.T, db *gorm.DB, name string) models.Automaker {
	automaker := models.Automaker{Name: name}
	require.NoError(t, db.Create(&automaker).Error)
	return automaker
}

func seedCar(t *testing.T, db *gorm.DB, automakerID uint, price string, imagePath string) models.Car {
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
		ImagePath:       imagePath,
		Status:          models.CarStatusAvailable,
	}
	require.NoError(t, db.Create(&car).Error)
	return car
}

func seedUser(t *testing.T, db *gorm.DB, username, role string) models.User {
	user := models.User{Username: username, Password: "hash", PhoneNumber: "+15551234567", Role: role}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func reloadCar(t *testing.T, db *gorm.DB, id uint) models.Car {
	var car models.Car
	require.NoError(t, db.First(&car, id).Error)
	return car
}
