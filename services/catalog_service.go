package services

import (
	"context"
	"errors"
	"mime/multipart"

	appConfig "github.com/kendall-kelly/fourwheels-api/config"
	"github.com/kendall-kelly/fourwheels-api/models"
	"github.com/kendall-kelly/fourwheels-api/repositories"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CarInput carries the listing fields of a car create or update
type CarInput struct {
	AutomakerID     uint
	Model           string
	Year            int
	BodyStyle       string
	Price           decimal.Decimal
	Colour          string
	EngineType      string
	Transmission    string
	Mileage         int
	SeatingCapacity int
	Status          string // optional, admin edit
}

// CatalogService manages automakers and cars along with the images cars own
type CatalogService struct {
	db     *gorm.DB
	images ImageService
}

func NewCatalogService(db *gorm.DB, images ImageService) *CatalogService {
	return &CatalogService{db: db, images: images}
}

// CreateCar stores the image and then the car. The image is released if the insert fails.
func (s *CatalogService) CreateCar(ctx context.Context, in CarInput, image *multipart.FileHeader) (*models.Car, error) {
	if err := s.ensureAutomaker(ctx, in.AutomakerID); err != nil {
		return nil, err
	}
	if in.Status != "" && !models.IsValidCarStatus(in.Status) {
		return nil, ErrInvalidStatus
	}

	key, err := s.images.UploadImage(ctx, image)
	if err != nil {
		return nil, err
	}

	car := &models.Car{ImagePath: key}
	in.apply(car)
	if err := repositories.NewCarRepository(s.db).Create(ctx, car); err != nil {
		s.releaseImages(ctx, key)
		return nil, err
	}
	return car, nil
}

// UpdateCar stores the new image, persists the car with its new path, then releases the old image
func (s *CatalogService) UpdateCar(ctx context.Context, id uint, in CarInput, image *multipart.FileHeader) (*models.Car, error) {
	cars := repositories.NewCarRepository(s.db)
	car, err := cars.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCarNotFound
		}
		return nil, err
	}
	if err := s.ensureAutomaker(ctx, in.AutomakerID); err != nil {
		return nil, err
	}
	if in.Status != "" && !models.IsValidCarStatus(in.Status) {
		return nil, ErrInvalidStatus
	}

	key, err := s.images.UploadImage(ctx, image)
	if err != nil {
		return nil, err
	}

	previous := car.ImagePath
	car.ImagePath = key
	in.apply(car)
	if err := cars.Save(ctx, car); err != nil {
		s.releaseImages(ctx, key)
		return nil, err
	}

	if previous != key {
		s.releaseImages(ctx, previous)
	}
	return car, nil
}

// DeleteCar removes the car and every order referencing it, then releases its image
func (s *CatalogService) DeleteCar(ctx context.Context, id uint) error {
	var imageKey string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cars := repositories.NewCarRepository(tx)
		car, err := cars.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrCarNotFound
			}
			return err
		}
		imageKey = car.ImagePath

		if err := repositories.NewOrderRepository(tx).DeleteByCars(ctx, []uint{id}); err != nil {
			return err
		}
		return cars.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.releaseImages(ctx, imageKey)
	return nil
}

// DeleteAutomaker removes the automaker, its cars and every order for those cars in one
// transaction. Car images are released after commit. It returns the number of cars removed.
func (s *CatalogService) DeleteAutomaker(ctx context.Context, id uint) (int, error) {
	var imageKeys []string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		automakers := repositories.NewAutomakerRepository(tx)
		if _, err := automakers.FindByID(ctx, id); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrAutomakerNotFound
			}
			return err
		}

		cars := repositories.NewCarRepository(tx)
		owned, err := cars.List(ctx, repositories.CarFilter{AutomakerID: id})
		if err != nil {
			return err
		}
		carIDs := make([]uint, 0, len(owned))
		for _, car := range owned {
			carIDs = append(carIDs, car.ID)
			imageKeys = append(imageKeys, car.ImagePath)
		}

		if err := repositories.NewOrderRepository(tx).DeleteByCars(ctx, carIDs); err != nil {
			return err
		}
		if err := cars.DeleteByAutomaker(ctx, id); err != nil {
			return err
		}
		return automakers.Delete(ctx, id)
	})
	if err != nil {
		return 0, err
	}

	s.releaseImages(ctx, imageKeys...)
	return len(imageKeys), nil
}

// CarView joins one car with its automaker and image URL
func (s *CatalogService) CarView(ctx context.Context, car models.Car) (*models.CarView, error) {
	views, err := s.CarViews(ctx, []models.Car{car})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// CarViews joins cars with their automakers and image URLs using one automaker lookup
func (s *CatalogService) CarViews(ctx context.Context, cars []models.Car) ([]models.CarView, error) {
	ids := make([]uint, 0, len(cars))
	for _, car := range cars {
		ids = append(ids, car.AutomakerID)
	}
	automakers, err := repositories.NewAutomakerRepository(s.db).FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]models.CarView, 0, len(cars))
	for _, car := range cars {
		view := models.CarView{Car: car}
		if automaker, ok := automakers[car.AutomakerID]; ok {
			view.Automaker = &automaker
		}
		url, err := s.images.GetImageURL(ctx, car.ImagePath)
		if err != nil {
			appConfig.GetLogger().Warn("failed to resolve car image URL",
				zap.Uint("car_id", car.ID), zap.String("image_path", car.ImagePath), zap.Error(err))
		}
		view.ImageURL = url
		views = append(views, view)
	}
	return views, nil
}

func (s *CatalogService) ensureAutomaker(ctx context.Context, id uint) error {
	if _, err := repositories.NewAutomakerRepository(s.db).FindByID(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrAutomakerNotFound
		}
		return err
	}
	return nil
}

// releaseImages deletes stored images, logging failures instead of returning them
func (s *CatalogService) releaseImages(ctx context.Context, keys ...string) {
	for _, key := range keys {
		if err := s.images.DeleteImage(ctx, key); err != nil {
			appConfig.GetLogger().Warn("failed to release car image", zap.String("image_path", key), zap.Error(err))
		}
	}
}

func (in CarInput) apply(car *models.Car) {
	car.AutomakerID = in.AutomakerID
	car.Model = in.Model
	car.Year = in.Year
	car.BodyStyle = in.BodyStyle
	car.Price = in.Price
	car.Colour = in.Colour
	car.EngineType = in.EngineType
	car.Transmission = in.Transmission
	car.Mileage = in.Mileage
	car.SeatingCapacity = in.SeatingCapacity
	if in.Status != "" {
		car.Status = in.Status
	}
}
