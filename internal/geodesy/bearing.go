package geodesy

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrUnknownBearingStrategy — неизвестное имя стратегии расчёта азимута.
var ErrUnknownBearingStrategy = errors.New("unknown bearing strategy")

// BearingStrategy — способ расчёта азимута между двумя точками.
// Стратегии дают разные результаты и не взаимозаменяемы.
type BearingStrategy int

const (
	// GreatCircle — начальный азимут по дуге большого круга.
	GreatCircle BearingStrategy = iota

	// Flat — азимут на равнопромежуточной карте (долгота и широта как X и Y).
	Flat
)

// String возвращает имя стратегии.
func (s BearingStrategy) String() string {
	switch s {
	case GreatCircle:
		return "great-circle"
	case Flat:
		return "flat"
	default:
		return fmt.Sprintf("BearingStrategy(%d)", int(s))
	}
}

// ParseBearingStrategy разбирает имя стратегии ("great-circle" или "flat").
func ParseBearingStrategy(name string) (BearingStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "great-circle", "greatcircle", "gc":
		return GreatCircle, nil
	case "flat":
		return Flat, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownBearingStrategy, name)
	}
}

// Bearing возвращает азимут от start к end в градусах [0, 360) выбранной стратегией.
// Неизвестная стратегия трактуется как GreatCircle.
func Bearing(start, end Coordinate, strategy BearingStrategy) float64 {
	if strategy == Flat {
		return FlatBearing(start, end)
	}
	return InitialBearing(start, end)
}

// InitialBearing возвращает начальный азимут (прямой азимут) дуги большого круга
// от start к end в градусах [0, 360). Для совпадающих точек возвращает 0.
func InitialBearing(start, end Coordinate) float64 {
	if start.SameLocation(end) {
		return 0
	}

	lat1 := start.LatRad()
	lat2 := end.LatRad()
	dLon := end.LonRad() - start.LonRad()

	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)

	return normalizeDegrees(math.Atan2(y, x) * Rad2Deg)
}

// FlatBearing возвращает азимут от start к end на плоской карте: долгота — ось X,
// широта — ось Y. Угол atan2 поворачивается на 90° в компасный отсчёт
// (север = 0, восток = 90). Для совпадающих точек возвращает 0.
func FlatBearing(start, end Coordinate) float64 {
	if start.SameLocation(end) {
		return 0
	}

	dx := end.Longitude - start.Longitude
	dy := end.Latitude - start.Latitude

	theta := math.Atan2(dy, dx) * Rad2Deg

	return normalizeDegrees(90 - theta)
}
