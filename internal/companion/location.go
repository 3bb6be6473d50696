package companion

import (
	"errors"
	"fmt"
	"sync"

	"github.com/kelvins/geocoder"

	"github.com/i474232898/weather-watchface/internal/logging"
)

// ErrNoGeocoderKey is returned when coordinates are needed but no geocoding
// key is configured.
var ErrNoGeocoderKey = errors.New("geocoder api key is not configured")

// geocoder keeps its key in a package variable.
var geocoderMu sync.Mutex

// ResolveLocation fills in Lat/Lon from City/Country when they are missing,
// so coordinate-only providers such as Open-Meteo can be used.
func ResolveLocation(loc Location, apiKey string) (Location, error) {
	if loc.HasCoordinates() {
		return loc, nil
	}
	if loc.City == "" {
		return loc, fmt.Errorf("location needs a city or coordinates")
	}
	if apiKey == "" {
		return loc, ErrNoGeocoderKey
	}

	geocoderMu.Lock()
	geocoder.ApiKey = apiKey
	res, err := geocoder.Geocoding(geocoder.Address{City: loc.City, Country: loc.Country})
	geocoderMu.Unlock()
	if err != nil {
		return loc, fmt.Errorf("geocode %s: %w", loc.Key(), err)
	}

	lat, lon := res.Latitude, res.Longitude
	loc.Lat, loc.Lon = &lat, &lon
	logging.Info("companion: resolved location", "location", loc.Key(), "lat", lat, "lon", lon)
	return loc, nil
}
