// Package orbital реализует разбор орбитальных элементов NORAD в формате TLE.
package orbital

import (
	"fmt"
	"math"
	"time"

	"github.com/art-injener/flatland-astro/internal/calendar"
	"github.com/art-injener/flatland-astro/internal/geodesy"
)

// Classification — гриф набора элементов (колонка 8 первой строки).
type Classification byte

const (
	Unclassified Classification = 'U'
	Classified   Classification = 'C'
	Secret       Classification = 'S'
)

// parseClassification проверяет, что символ — допустимый гриф.
func parseClassification(c byte) (Classification, bool) {
	switch cl := Classification(c); cl {
	case Unclassified, Classified, Secret:
		return cl, true
	default:
		return 0, false
	}
}

// String возвращает название грифа.
func (c Classification) String() string {
	switch c {
	case Unclassified:
		return "unclassified"
	case Classified:
		return "classified"
	case Secret:
		return "secret"
	default:
		return fmt.Sprintf("Classification(%q)", byte(c))
	}
}

// Параметры орбиты для производных величин.
const (
	// earthMu — гравитационный параметр Земли, км³/с².
	earthMu = 398600.4418

	// minutesPerDay — число минут в сутках.
	minutesPerDay = 1440.0

	// epochYearPivot — двузначные годы от 57 относятся к XX веку (первый спутник — 1957).
	epochYearPivot = 57
)

// ElementSet — орбитальные элементы одного спутника.
// Возвращается только полностью успешным разбором.
type ElementSet struct {
	Name           string         // Имя спутника (строка заголовка), пусто для 2-line формата.
	CatalogNumber  int            // Номер по каталогу NORAD (с поддержкой Alpha-5).
	Classification Classification // Гриф.

	LaunchYear   int    // Год запуска (4 цифры), 0 если не указан.
	LaunchNumber int    // Номер запуска в году.
	LaunchPiece  string // Обозначение фрагмента запуска.

	EpochYear int     // Год эпохи (4 цифры).
	EpochDay  float64 // День года эпохи с дробной частью (1.0 — полночь 1 января).

	MeanMotionDot  float64 // Первая производная среднего движения / 2, об/сут².
	MeanMotionDDot float64 // Вторая производная среднего движения / 6, об/сут³.
	BStar          float64 // Коэффициент торможения B*, 1/радиус Земли.
	EphemerisType  int     // Тип эфемериды (обычно 0).
	ElementSetNo   int     // Номер набора элементов.

	Inclination      float64 // Наклонение, градусы.
	RAAN             float64 // Долгота восходящего узла, градусы.
	Eccentricity     float64 // Эксцентриситет.
	ArgOfPerigee     float64 // Аргумент перигея, градусы.
	MeanAnomaly      float64 // Средняя аномалия, градусы.
	MeanMotion       float64 // Среднее движение, об/сут.
	RevolutionNumber int     // Номер витка на эпоху.

	Line1 string // Исходная первая строка.
	Line2 string // Исходная вторая строка.
}

// IntlDesignator возвращает международное обозначение (COSPAR) вида "1998-067A".
func (es *ElementSet) IntlDesignator() string {
	if es.LaunchYear == 0 {
		return ""
	}
	return fmt.Sprintf("%04d-%03d%s", es.LaunchYear, es.LaunchNumber, es.LaunchPiece)
}

// EpochJulian возвращает эпоху элементов как юлианскую дату.
func (es *ElementSet) EpochJulian() calendar.JulianDate {
	// Нулевой день января — полночь 31 декабря предыдущего года.
	return calendar.GregorianToJulian(es.EpochYear, 1, 0) + calendar.JulianDate(es.EpochDay)
}

// Epoch возвращает эпоху элементов (UTC).
func (es *ElementSet) Epoch() time.Time {
	base := time.Date(es.EpochYear, time.January, 1, 0, 0, 0, 0, time.UTC)
	return base.Add(time.Duration((es.EpochDay - 1) * 24 * float64(time.Hour)))
}

// Age возвращает возраст элементов относительно now.
func (es *ElementSet) Age(now time.Time) time.Duration {
	return now.Sub(es.Epoch())
}

// IsStale сообщает, старше ли элементы maxAgeDays суток на момент now.
func (es *ElementSet) IsStale(now time.Time, maxAgeDays float64) bool {
	return es.Age(now).Hours()/24 > maxAgeDays
}

// OrbitalPeriod возвращает орбитальный период в минутах.
func (es *ElementSet) OrbitalPeriod() float64 {
	if es.MeanMotion == 0 {
		return 0
	}
	return minutesPerDay / es.MeanMotion
}

// SemiMajorAxis возвращает большую полуось орбиты в километрах: a = (μ / n²)^(1/3),
// n — среднее движение в рад/с.
func (es *ElementSet) SemiMajorAxis() float64 {
	n := es.MeanMotion * 2 * math.Pi / calendar.SecondsPerDay
	if n == 0 {
		return 0
	}

	return math.Cbrt(earthMu / (n * n))
}

// Apogee возвращает высоту апогея над поверхностью Земли, км.
func (es *ElementSet) Apogee() float64 {
	return es.SemiMajorAxis()*(1+es.Eccentricity) - geodesy.EarthRadiusKm
}

// Perigee возвращает высоту перигея над поверхностью Земли, км.
func (es *ElementSet) Perigee() float64 {
	return es.SemiMajorAxis()*(1-es.Eccentricity) - geodesy.EarthRadiusKm
}

// String возвращает набор в исходном 2-line или 3-line формате.
func (es *ElementSet) String() string {
	if es.Name != "" {
		return fmt.Sprintf("%s\n%s\n%s", es.Name, es.Line1, es.Line2)
	}
	return fmt.Sprintf("%s\n%s", es.Line1, es.Line2)
}

// fullYear переводит двузначный год TLE в четырёхзначный.
func fullYear(yy int) int {
	if yy >= epochYearPivot {
		return 1900 + yy
	}
	return 2000 + yy
}
