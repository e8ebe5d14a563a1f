package utils

import (
	"math"
	"strconv"
	"strings"
)

// gridEpsilon nudges coordinates sitting exactly on a cell boundary into
// the cell they nominally open, compensating for float noise from upstream
// arithmetic.
const gridEpsilon = 1e-10

// GridCell quantizes a coordinate into a fixed-size grid cell identifier
// "<latIndex>_<lngIndex>". Cells are half-open squares [i*size, (i+1)*size)
// per axis; negative coordinates floor toward negative infinity.
func GridCell(lat, lng, size float64) string {
	latIdx := int(math.Floor(lat/size + gridEpsilon))
	lngIdx := int(math.Floor(lng/size + gridEpsilon))
	return strconv.Itoa(latIdx) + "_" + strconv.Itoa(lngIdx)
}

// ParseGridCell splits a cell identifier back into its axis indices.
func ParseGridCell(cell string) (latIdx, lngIdx int, ok bool) {
	latPart, lngPart, found := strings.Cut(cell, "_")
	if !found {
		return 0, 0, false
	}
	latIdx, err := strconv.Atoi(latPart)
	if err != nil {
		return 0, 0, false
	}
	lngIdx, err = strconv.Atoi(lngPart)
	if err != nil {
		return 0, 0, false
	}
	return latIdx, lngIdx, true
}

// CoveredGrids returns the ordered, de-duplicated set of grid cells that
// contain at least one point of the route. Computed once when a ride is
// published and stored alongside the encoded route.
func CoveredGrids(points []Point, size float64) []string {
	grids := []string{}
	seen := make(map[string]struct{}, len(points))

	for _, point := range points {
		cell := GridCell(point.Lat, point.Lng, size)
		if _, dup := seen[cell]; dup {
			continue
		}
		seen[cell] = struct{}{}
		grids = append(grids, cell)
	}

	return grids
}
