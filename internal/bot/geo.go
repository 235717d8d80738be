// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PoGoBot Contributors

package bot

import (
	"math"

	"github.com/pogobot/pogobot/internal/model"
)

const earthRadiusMeters = 6371000.0

// Distance returns the great-circle distance between two positions in meters.
func Distance(a, b model.Position) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := lat2 - lat1
	dLng := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(h)))
}
