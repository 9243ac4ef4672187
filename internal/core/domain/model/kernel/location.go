package kernel

import (
	"errors"
	"fmt"

	"dispatch/internal/pkg/errs"
)

// ErrLocationIsNotConstructed is returned when attempting to use an
// improperly initialized Location. Locations must be created via NewLocation.
var ErrLocationIsNotConstructed = errs.NewValueIsRequiredError(
	"location must be created via NewLocation constructor")

// Location is a delivery destination: geographic coordinates plus the
// free-text address the customer typed or the transport resolved.
// It is an immutable value object; the zero value fails validation.
type Location struct {
	lat           float64
	lon           float64
	address       string
	isConstructed bool
}

// NewLocation creates a Location with validated coordinates.
// Latitude must be within [-90, 90] and longitude within [-180, 180];
// whether the point lies inside the service area is a separate concern,
// checked against Bounds by the conversation layer.
func NewLocation(lat, lon float64, address string) (Location, error) {
	loc := Location{address: address, isConstructed: true}

	if err := errors.Join(loc.setLat(lat), loc.setLon(lon)); err != nil {
		return Location{}, err
	}

	return loc, nil
}

// Validate reports whether the Location came through the constructor.
func (l Location) Validate() error {
	if !l.isConstructed {
		return ErrLocationIsNotConstructed
	}
	return nil
}

// Lat returns the latitude in decimal degrees.
func (l Location) Lat() float64 { return l.lat }

// Lon returns the longitude in decimal degrees.
func (l Location) Lon() float64 { return l.lon }

// Address returns the free-text address, possibly empty.
func (l Location) Address() string { return l.address }

func (l Location) String() string {
	return fmt.Sprintf("Location(%.5f,%.5f)", l.lat, l.lon)
}

func (l *Location) setLat(lat float64) error {
	if lat < -90 || lat > 90 {
		return errs.NewValueIsOutOfRangeError("latitude", lat, -90.0, 90.0)
	}
	l.lat = lat
	return nil
}

func (l *Location) setLon(lon float64) error {
	if lon < -180 || lon > 180 {
		return errs.NewValueIsOutOfRangeError("longitude", lon, -180.0, 180.0)
	}
	l.lon = lon
	return nil
}

// Bounds is the rectangular service area orders may be delivered inside.
// Locations outside the bounds are re-prompted at the conversation boundary,
// they never reach the coordinator.
type Bounds struct {
	MinLat float64
	MaxLat float64
	MinLon float64
	MaxLon float64
}

// DefaultBounds covers the Tashkent service city.
var DefaultBounds = Bounds{MinLat: 40.9, MaxLat: 41.5, MinLon: 69.0, MaxLon: 69.9}

// Validate rejects inverted rectangles.
func (b Bounds) Validate() error {
	if b.MinLat >= b.MaxLat || b.MinLon >= b.MaxLon {
		return errs.NewValueIsInvalidError("bounds")
	}
	return nil
}

// Contains reports whether the location lies inside the service area.
func (b Bounds) Contains(l Location) bool {
	return l.lat >= b.MinLat && l.lat <= b.MaxLat &&
		l.lon >= b.MinLon && l.lon <= b.MaxLon
}
