package calendar

import (
	"fmt"
	"time"
)

// Season — астрономический сезон (для северного полушария).
type Season int

// Сезоны, начало которых определяется равноденствием или солнцестоянием.
const (
	Spring Season = iota // Весеннее равноденствие.
	Summer               // Летнее солнцестояние.
	Fall                 // Осеннее равноденствие.
	Winter               // Зимнее солнцестояние.
)

// seasonTerms — коэффициенты полинома JDE = c0 + c1·Y + c2·Y² + c3·Y³ + c4·Y⁴
// (Meeus, "Astronomical Algorithms", табл. 27.A, годы 1000–3000).
var seasonTerms = [...][5]float64{
	Spring: {2451623.80984, 365242.37404, 0.05169, -0.00411, -0.00057},
	Summer: {2451716.56767, 365241.62603, 0.00325, 0.00888, -0.00030},
	Fall:   {2451810.21715, 365242.01767, -0.11575, 0.00337, 0.00078},
	Winter: {2451900.05952, 365242.74049, -0.06223, -0.00823, 0.00032},
}

// String возвращает название сезона.
func (s Season) String() string {
	switch s {
	case Spring:
		return "spring"
	case Summer:
		return "summer"
	case Fall:
		return "fall"
	case Winter:
		return "winter"
	default:
		return fmt.Sprintf("Season(%d)", int(s))
	}
}

// SeasonalJulianDate возвращает приближённую юлианскую дату (динамическое время)
// начала сезона. y — нормированный миллениум: (год - 2000) / 1000.
// Для неизвестного сезона возвращает 0.
func SeasonalJulianDate(season Season, y float64) JulianDate {
	if season < Spring || season > Winter {
		return 0
	}

	c := seasonTerms[season]

	// Схема Горнера.
	jde := c[0] + y*(c[1]+y*(c[2]+y*(c[3]+y*c[4])))

	return JulianDate(jde)
}

// SeasonStart возвращает момент начала сезона в указанном году (UTC, без учёта ΔT).
func SeasonStart(year int, season Season) time.Time {
	y := float64(year-2000) / 1000.0
	return SeasonalJulianDate(season, y).Time()
}
