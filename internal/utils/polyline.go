package utils

import (
	"math"
	"strings"
)

// polylinePrecision is the fixed-point scale of the Google Encoded Polyline
// Algorithm Format: coordinates are encoded at 1e-5 degree resolution.
const polylinePrecision = 1e5

// EncodePolyline encodes an ordered point sequence into the Google Encoded
// Polyline Algorithm Format. Each coordinate is rounded to 1e-5 degrees,
// delta-encoded against the previous point, zig-zag encoded and packed into
// 5-bit groups offset into printable ASCII.
func EncodePolyline(points []Point) string {
	var sb strings.Builder
	prevLat, prevLng := 0, 0

	for _, point := range points {
		lat := int(math.Round(point.Lat * polylinePrecision))
		lng := int(math.Round(point.Lng * polylinePrecision))

		encodeSignedNumber(&sb, lat-prevLat)
		encodeSignedNumber(&sb, lng-prevLng)

		prevLat = lat
		prevLng = lng
	}

	return sb.String()
}

// DecodePolyline decodes an encoded polyline back into its point sequence.
// An empty string decodes to an empty sequence; callers treat "no route" as
// a valid case, not an error. Trailing bytes that do not form a whole
// coordinate pair are dropped.
func DecodePolyline(encoded string) []Point {
	points := []Point{}
	lat, lng := 0, 0

	for i := 0; i < len(encoded); {
		dLat, next, ok := decodeSignedNumber(encoded, i)
		if !ok {
			break
		}
		dLng, after, ok := decodeSignedNumber(encoded, next)
		if !ok {
			break
		}

		lat += dLat
		lng += dLng
		i = after

		points = append(points, Point{
			Lat: float64(lat) / polylinePrecision,
			Lng: float64(lng) / polylinePrecision,
		})
	}

	return points
}

func encodeSignedNumber(sb *strings.Builder, num int) {
	sgn := num << 1
	if num < 0 {
		sgn = ^sgn
	}
	for sgn >= 0x20 {
		sb.WriteByte(byte((0x20 | (sgn & 0x1f)) + 63))
		sgn >>= 5
	}
	sb.WriteByte(byte(sgn + 63))
}

func decodeSignedNumber(encoded string, pos int) (value, next int, ok bool) {
	result, shift := 0, 0
	for {
		if pos >= len(encoded) {
			return 0, pos, false
		}
		b := int(encoded[pos]) - 63
		pos++
		result |= (b & 0x1f) << shift
		shift += 5
		if b < 0x20 {
			break
		}
	}

	if result&1 != 0 {
		return ^(result >> 1), pos, true
	}
	return result >> 1, pos, true
}
