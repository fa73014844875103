// Package services – CarService
//
// The demo car resource carries no business rules of its own; the service
// exists so the validation pipeline and the generic repository have a third,
// schema-constrained entity to exercise.
package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/go-users-api/internal/domain"
	"github.com/tbourn/go-users-api/internal/repo"
)

// CarService persists demo cars.
type CarService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the car repository used by this service.
	Repo repo.CarRepo
}

// NewCarService constructs a CarService bound to the given database handle.
func NewCarService(db *gorm.DB) *CarService {
	return &CarService{DB: db}
}

// Create inserts a new car. Field validation (enum membership, required
// fields) happens at the API boundary before this is called.
func (s *CarService) Create(ctx context.Context, brand, color string, isPreowned bool) (*domain.Car, error) {
	c := repo.NewCar(brand, color, isPreowned)
	if err := s.Repo.Create(ctx, s.DB, c); err != nil {
		return nil, err
	}
	return c, nil
}
