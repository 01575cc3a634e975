// README: Shared value types used across modules (IDs, geographic points).
package types

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

type ID string

// ErrInvalidPoint is returned when a coordinate falls outside the valid
// latitude/longitude ranges.
var ErrInvalidPoint = errors.New("invalid coordinate")

// Point is a WGS84 coordinate in decimal degrees.
type Point struct {
	Lat float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lng float64 `json:"lng" validate:"gte=-180,lte=180"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate rejects out-of-range and NaN coordinates.
func (p Point) Validate() error {
	if err := validate.Struct(p); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: %s", ErrInvalidPoint, formatFieldError(verrs[0]))
		}
		return fmt.Errorf("%w: %v", ErrInvalidPoint, err)
	}
	return nil
}

func formatFieldError(err validator.FieldError) string {
	switch err.Tag() {
	case "gte":
		return fmt.Sprintf("%s must be >= %s (got %v)", err.Field(), err.Param(), err.Value())
	case "lte":
		return fmt.Sprintf("%s must be <= %s (got %v)", err.Field(), err.Param(), err.Value())
	default:
		return err.Field() + " failed " + err.Tag() + " validation"
	}
}
