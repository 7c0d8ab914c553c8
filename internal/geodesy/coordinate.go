// Package geodesy реализует расчёт расстояний и азимутов между точками на сфере.
package geodesy

import (
	"fmt"
	"math"
)

// Константы WGS84 эллипсоида.
const (
	// WGS84A — экваториальный радиус Земли (большая полуось), км.
	WGS84A = 6378.137

	// WGS84F — сплюснутость эллипсоида.
	WGS84F = 1.0 / 298.257223563

	// WGS84E2 — квадрат первого эксцентриситета.
	WGS84E2 = 2*WGS84F - WGS84F*WGS84F

	// EarthRadiusKm — радиус идеальной сферы для расчёта расстояний, км.
	EarthRadiusKm = WGS84A

	// Deg2Rad — коэффициент перевода градусов в радианы.
	Deg2Rad = math.Pi / 180.0

	// Rad2Deg — коэффициент перевода радианов в градусы.
	Rad2Deg = 180.0 / math.Pi
)

// Coordinate — географическая точка. Значение неизменяемое.
// Нормализация долготы при переходе через антимеридиан — забота вызывающего
// (см. NormalizeLongitude).
type Coordinate struct {
	Latitude  float64 // Широта в градусах (-90..+90).
	Longitude float64 // Долгота в градусах (-180..+180).
	Altitude  float64 // Высота над уровнем моря, км (0, если неизвестна).
}

// ECEFPosition — позиция в системе ECEF (Earth-Centered Earth-Fixed), км.
type ECEFPosition struct {
	X float64
	Y float64
	Z float64
}

// NewCoordinate создаёт точку на уровне моря.
func NewCoordinate(latDeg, lonDeg float64) Coordinate {
	return Coordinate{Latitude: latDeg, Longitude: lonDeg}
}

// Valid проверяет, что координаты конечны и лежат в допустимых диапазонах.
func (c Coordinate) Valid() bool {
	if math.IsNaN(c.Latitude) || math.IsNaN(c.Longitude) || math.IsNaN(c.Altitude) {
		return false
	}
	if math.IsInf(c.Latitude, 0) || math.IsInf(c.Longitude, 0) || math.IsInf(c.Altitude, 0) {
		return false
	}

	return c.Latitude >= -90 && c.Latitude <= 90 && c.Longitude >= -180 && c.Longitude <= 180
}

// SameLocation сообщает, совпадают ли широта и долгота точно.
func (c Coordinate) SameLocation(other Coordinate) bool {
	return c.Latitude == other.Latitude && c.Longitude == other.Longitude
}

// Antipode возвращает диаметрально противоположную точку.
func (c Coordinate) Antipode() Coordinate {
	lon := c.Longitude + 180
	if c.Longitude > 0 {
		lon = c.Longitude - 180
	}

	return Coordinate{
		Latitude:  -c.Latitude,
		Longitude: lon,
		Altitude:  c.Altitude,
	}
}

// LatRad возвращает широту в радианах.
func (c Coordinate) LatRad() float64 {
	return c.Latitude * Deg2Rad
}

// LonRad возвращает долготу в радианах.
func (c Coordinate) LonRad() float64 {
	return c.Longitude * Deg2Rad
}

// String возвращает координаты в виде "lat,lon".
func (c Coordinate) String() string {
	return fmt.Sprintf("%.6f,%.6f", c.Latitude, c.Longitude)
}

// ToECEF преобразует точку в ECEF с учётом сплюснутости WGS84 и высоты.
func (c Coordinate) ToECEF() ECEFPosition {
	sinLat := math.Sin(c.LatRad())
	cosLat := math.Cos(c.LatRad())
	sinLon := math.Sin(c.LonRad())
	cosLon := math.Cos(c.LonRad())

	// radiusN — радиус кривизны в первом вертикале.
	radiusN := WGS84A / math.Sqrt(1.0-WGS84E2*sinLat*sinLat)

	return ECEFPosition{
		X: (radiusN + c.Altitude) * cosLat * cosLon,
		Y: (radiusN + c.Altitude) * cosLat * sinLon,
		Z: (radiusN*(1.0-WGS84E2) + c.Altitude) * sinLat,
	}
}

// ChordDistanceKm возвращает расстояние по прямой (через тело Земли) между точками,
// учитывая их высоту.
func ChordDistanceKm(p1, p2 Coordinate) float64 {
	a := p1.ToECEF()
	b := p2.ToECEF()

	dx := b.X - a.X
	dy := b.Y - a.Y
	dz := b.Z - a.Z

	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// NormalizeLongitude приводит долготу к диапазону [-180, 180).
func NormalizeLongitude(lon float64) float64 {
	lon = math.Mod(lon+180, 360)
	if lon < 0 {
		lon += 360
	}
	return lon - 180
}

// normalizeDegrees приводит угол к диапазону [0, 360).
func normalizeDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	// math.Mod(-1e-15, 360) + 360 округляется до 360.
	if deg >= 360 {
		deg = 0
	}
	return deg
}

// clamp ограничивает аргумент обратных тригонометрических функций диапазоном [-1, 1].
func clamp(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}
