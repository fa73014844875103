// Package handlers provides HTTP handler implementations for the public API.
// This file wires the handler set to its service dependencies.
package handlers

// Handlers groups HTTP endpoints for users, posts, and the demo car.
// It depends on abstract service interfaces to keep transport concerns
// separate from business logic.
type Handlers struct {
	userSvc UserService
	postSvc PostService
	carSvc  CarService
}

// New constructs and returns a Handlers instance bound to the given services.
func New(userSvc UserService, postSvc PostService, carSvc CarService) *Handlers {
	return &Handlers{userSvc: userSvc, postSvc: postSvc, carSvc: carSvc}
}
