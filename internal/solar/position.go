// Package solar реализует упрощённую эфемериду Солнца и расчёт восхода и заката.
package solar

import (
	"math"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"

	"github.com/art-injener/flatland-astro/internal/calendar"
	"github.com/art-injener/flatland-astro/internal/geodesy"
)

// Константы солнечной эфемериды.
const (
	// MeanObliquity — средний наклон эклиптики, используемый в модели склонения, градусы.
	MeanObliquity = 23.44

	// declinationYearDays — длина года в модели среднего склонения, сутки.
	declinationYearDays = 365.25

	// declinationDayOffset — сдвиг от 1 января до зимнего солнцестояния, сутки.
	declinationDayOffset = 10.0
)

// SunPosition возвращает прямое восхождение и склонение Солнца (радианы).
// jd — сутки от эпохи J2000.0, centuries — юлианские столетия от 1900.0 (jd/36525 + 1).
// Прямое восхождение не нормализуется и может немного выходить за [0, 2π).
func SunPosition(jd, centuries float64) (ra, dec float64) {
	// Средняя долгота и средняя аномалия.
	lo := frac(0.779072+0.00273790931*jd) * 2 * math.Pi
	g := frac(0.993126+0.0027377785*jd) * 2 * math.Pi

	v := 0.39785*math.Sin(lo) -
		0.01*math.Sin(lo-g) +
		0.00333*math.Sin(lo+g) -
		0.00021*centuries*math.Sin(lo)

	u := 1 -
		0.03349*math.Cos(g) -
		0.00014*math.Cos(2*lo) +
		0.00008*math.Cos(lo)

	w := -0.0001 -
		0.04129*math.Sin(2*lo) +
		0.03211*math.Sin(g) +
		0.00104*math.Sin(2*lo-g) -
		0.00035*math.Sin(2*lo+g) -
		0.00008*centuries*math.Sin(g)

	ra = lo + math.Asin(clamp(w/math.Sqrt(u-v*v)))
	dec = math.Asin(clamp(v / math.Sqrt(u)))

	return ra, dec
}

// LocalSiderealTime возвращает местное звёздное время в радианах [0, 2π).
// lonFraction — долгота в долях оборота (градусы / 360), jd — сутки от J2000.0,
// zoneDays — часовой пояс в сутках (положителен к западу от Гринвича).
func LocalSiderealTime(lonFraction, jd, zoneDays float64) float64 {
	s := 24110.5 + 8640184.813*jd/36525 + 86636.6*zoneDays + 86400*lonFraction
	s = frac(s / 86400)

	return s * 360 * geodesy.Deg2Rad
}

// MeanDeclination возвращает приближённое склонение Солнца в градусах для даты
// по косинусной модели: cos(360°/365.25 · (дни от начала года + 10)) · (−23.44°).
// Начало года берётся в зоне самой даты.
func MeanDeclination(date time.Time) float64 {
	startOfYear := time.Date(date.Year(), time.January, 1, 0, 0, 0, 0, date.Location())
	days := date.Sub(startOfYear).Hours()/24 + declinationDayOffset

	return math.Cos(360/declinationYearDays*days*geodesy.Deg2Rad) * -MeanObliquity
}

// SubsolarPoint возвращает точку земной поверхности, где Солнце в момент t находится в зените.
func SubsolarPoint(t time.Time) geodesy.Coordinate {
	t = t.UTC()

	jd := calendar.FromTime(t).SinceJ2000()
	ra, dec := SunPosition(jd, jd/36525+1)

	year, month, day := t.Date()
	hour, minute, sec := t.Clock()
	gmst := satellite.GSTimeFromDate(year, int(month), day, hour, minute, sec)

	return geodesy.Coordinate{
		Latitude:  dec * geodesy.Rad2Deg,
		Longitude: geodesy.NormalizeLongitude((ra - gmst) * geodesy.Rad2Deg),
	}
}

// frac возвращает дробную часть числа (всегда неотрицательную).
func frac(x float64) float64 {
	return x - math.Floor(x)
}

// clamp ограничивает аргумент asin/acos диапазоном [-1, 1].
func clamp(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}

// sign возвращает знак числа: -1, 0 или 1.
func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
