// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides the demo car repository.
package repo

import (
	"time"

	"github.com/google/uuid"

	"github.com/tbourn/go-users-api/internal/domain"
)

// CarRepo persists demo cars. It needs no refinements beyond the generic
// base. The zero value is ready to use.
type CarRepo struct {
	Base[domain.Car]
}

// NewCar returns a Car with a fresh UUID primary key and UTC creation time.
func NewCar(brand, color string, isPreowned bool) *domain.Car {
	return &domain.Car{
		ID:         uuid.NewString(),
		Brand:      brand,
		Color:      color,
		IsPreowned: isPreowned,
		CreatedAt:  time.Now().UTC(),
	}
}
