// Car HTTP handler (template demo resource).
//
// The /car endpoint exists to exercise the validation pipeline end to end:
// required-field aggregation and enum membership with a field-specific code.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-users-api/internal/domain"
)

// CarService defines the demo car operation consumed by HTTP handlers.
type CarService interface {
	Create(ctx context.Context, brand, color string, isPreowned bool) (*domain.Car, error)
}

// CarCreateRequest is the JSON payload for the demo car endpoint. All three
// fields are required; color is constrained to the CarColor enum.
type CarCreateRequest struct {
	Brand      string `json:"brand"       binding:"required" example:"ford"`
	Color      string `json:"color"       binding:"required,oneof=red blue" example:"red"`
	IsPreowned *bool  `json:"is_preowned" binding:"required"`
}

// CreateCar godoc
// @ID          createCar
// @Summary     Create a demo car
// @Tags        Cars
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.CarCreateRequest  true "Create payload"
// @Success     200  {object}  domain.Car
// @Failure     400  {object}  handlers.Envelope "MISSING_FIELDS / INVALID_COLOR"
// @Router      /car [post]
func (h *Handlers) CreateCar(c *gin.Context) {
	var req CarCreateRequest
	if !bindJSON(c, &req) {
		return
	}
	car, err := h.carSvc.Create(c.Request.Context(), req.Brand, req.Color, *req.IsPreowned)
	if err != nil {
		failUnknown(c, err)
		return
	}
	ok(c, http.StatusOK, car)
}
