// Package geo provides the spherical-distance and centroid primitives used
// by stop detection.
package geo

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// EarthRadiusMeters is the mean Earth radius used for great-circle distances.
const EarthRadiusMeters = 6371000.0

// Distance returns the great-circle distance in meters between two WGS-84
// coordinates, computed with the haversine formula. The atan2 form is used
// rather than the law-of-cosines variant so the result stays stable for
// coincident and near-antipodal points.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	deltaLat := (lat2 - lat1) * math.Pi / 180
	deltaLon := (lon2 - lon1) * math.Pi / 180

	sinLat := math.Sin(deltaLat / 2)
	sinLon := math.Sin(deltaLon / 2)
	a := sinLat*sinLat + math.Cos(lat1Rad)*math.Cos(lat2Rad)*sinLon*sinLon
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMeters * c
}

// Centroid returns the arithmetic mean of the latitudes and longitudes
// independently. This is not a spherical centroid, which is acceptable at
// stop scale where the grouping radius is tens of meters. Empty input
// returns (0, 0).
func Centroid(lats, lons []float64) (lat, lon float64) {
	if len(lats) == 0 || len(lons) == 0 {
		return 0, 0
	}
	return stat.Mean(lats, nil), stat.Mean(lons, nil)
}
