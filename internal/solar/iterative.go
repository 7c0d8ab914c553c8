package solar

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/art-injener/flatland-astro/internal/calendar"
	"github.com/art-injener/flatland-astro/internal/geodesy"
)

// ErrZoneMismatch — часовой пояс противоречит полушарию долготы
// (например, восточный пояс для западной долготы).
var ErrZoneMismatch = errors.New("time zone and longitude do not match")

const (
	// Zenith — зенитное расстояние видимого горизонта с учётом рефракции
	// и углового радиуса Солнца, градусы.
	Zenith = 90.833

	// siderealHourRad — поворот звёздного времени за один час солнечного времени, радианы
	// (15° · 1.0027379).
	siderealHourRad = 0.26251616834300473

	// stepsPerDay — число часовых шагов решателя.
	stepsPerDay = 24
)

// Crossing — момент пересечения Солнцем горизонта в местном времени.
type Crossing struct {
	Hour    int     // Час (0..23).
	Minute  int     // Минута (0..59).
	Azimuth float64 // Азимут точки восхода или заката, градусы [0, 360).
}

// Seconds возвращает момент пересечения в секундах от местной полуночи.
func (c Crossing) Seconds() int {
	return c.Hour*3600 + c.Minute*60
}

// Event — восход и закат Солнца за сутки.
// Если ни восхода, ни заката нет, выставлен ровно один из флагов AlwaysVisible или NeverVisible.
type Event struct {
	Rise *Crossing // Восход, nil если его нет.
	Set  *Crossing // Закат, nil если его нет.

	AlwaysVisible bool // Полярный день.
	NeverVisible  bool // Полярная ночь.

	// Midnight — местная полночь суток события в зоне, в которой выражены часы и минуты.
	Midnight time.Time
}

// Valid проверяет согласованность события.
func (e Event) Valid() bool {
	if e.AlwaysVisible && e.NeverVisible {
		return false
	}
	if e.Rise == nil && e.Set == nil {
		return e.AlwaysVisible || e.NeverVisible
	}
	return !e.AlwaysVisible && !e.NeverVisible
}

// RiseTime возвращает момент восхода.
func (e Event) RiseTime() (time.Time, bool) {
	return e.crossingTime(e.Rise)
}

// SetTime возвращает момент заката.
func (e Event) SetTime() (time.Time, bool) {
	return e.crossingTime(e.Set)
}

func (e Event) crossingTime(c *Crossing) (time.Time, bool) {
	if c == nil || e.Midnight.IsZero() {
		return time.Time{}, false
	}
	return e.Midnight.Add(time.Duration(c.Seconds()) * time.Second), true
}

// String возвращает краткое описание события.
func (e Event) String() string {
	switch {
	case e.AlwaysVisible:
		return "sun always visible"
	case e.NeverVisible:
		return "sun never visible"
	}

	rise, set := "--:--", "--:--"
	if e.Rise != nil {
		rise = fmt.Sprintf("%02d:%02d", e.Rise.Hour, e.Rise.Minute)
	}
	if e.Set != nil {
		set = fmt.Sprintf("%02d:%02d", e.Set.Hour, e.Set.Minute)
	}

	return fmt.Sprintf("rise %s, set %s", rise, set)
}

// solver хранит промежуточные выборки одного расчёта восхода и заката.
// Создаётся на каждый вызов SunriseSunset, поэтому вызовы не делят состояние.
type solver struct {
	// Индексы 0 и 2 — начало и конец текущего часа, 1 — его середина.
	ra  [3]float64
	dec [3]float64
	vhz [3]float64

	sinLat   float64
	cosLat   float64
	cosZen   float64
	sidereal float64

	rise *Crossing
	set  *Crossing
}

// SunriseSunset рассчитывает восход и закат итерационным методом: склонение и прямое
// восхождение интерполируются по 24 часовым шагам, пересечение горизонта внутри часа
// уточняется по квадратичной аппроксимации высоты.
//
// Календарный день берётся из компонент date в её собственной зоне. tzOffsetSeconds —
// смещение зоны от UTC (к востоку положительно); часы и минуты результата выражены
// в поясе, округлённом до целого часа. Долгота к востоку положительна.
func SunriseSunset(date time.Time, latitude, longitude float64, tzOffsetSeconds int) (Event, error) {
	zone := -int(math.Round(float64(tzOffsetSeconds) / 3600))

	if sign(float64(zone)) == sign(longitude) && zone != 0 {
		return Event{}, fmt.Errorf("%w: zone %+d h, longitude %.4f", ErrZoneMismatch, -zone, longitude)
	}

	year, month, day := date.Date()
	jd := calendar.GregorianToJulian(year, int(month), float64(day)).SinceJ2000()

	zoneDays := float64(zone) / 24
	centuries := jd/36525 + 1

	s := solver{
		sinLat:   math.Sin(latitude * geodesy.Deg2Rad),
		cosLat:   math.Cos(latitude * geodesy.Deg2Rad),
		cosZen:   math.Cos(Zenith * geodesy.Deg2Rad),
		sidereal: LocalSiderealTime(longitude/360, jd, zoneDays),
	}

	// Положение Солнца в начале и в конце местных суток.
	jd += zoneDays
	ra0, dec0 := SunPosition(jd, centuries)

	jd++
	ra1, dec1 := SunPosition(jd, centuries)

	if ra1 < ra0 {
		ra1 += 2 * math.Pi
	}

	s.ra[0] = ra0
	s.dec[0] = dec0

	for hour := 0; hour < stepsPerDay; hour++ {
		step := float64(hour+1) / stepsPerDay

		s.ra[2] = ra0 + step*(ra1-ra0)
		s.dec[2] = dec0 + step*(dec1-dec0)

		s.testHour(hour)

		s.ra[0] = s.ra[2]
		s.dec[0] = s.dec[2]
		s.vhz[0] = s.vhz[2]
	}

	event := Event{
		Rise:     s.rise,
		Set:      s.set,
		Midnight: time.Date(year, month, day, 0, 0, 0, 0, time.FixedZone("", -zone*3600)),
	}

	if event.Rise == nil && event.Set == nil {
		if s.vhz[2] < 0 {
			event.NeverVisible = true
		} else {
			event.AlwaysVisible = true
		}
	}

	return event, nil
}

// altitude возвращает функцию высоты: положительна, когда Солнце над видимым горизонтом.
func (s *solver) altitude(dec, hourAngle float64) float64 {
	return s.sinLat*math.Sin(dec) + s.cosLat*math.Cos(dec)*math.Cos(hourAngle) - s.cosZen
}

// testHour проверяет, пересекает ли Солнце горизонт в течение часа hour,
// и записывает момент и азимут пересечения.
func (s *solver) testHour(hour int) {
	k := float64(hour)

	ha0 := s.sidereal - s.ra[0] + k*siderealHourRad
	ha2 := s.sidereal - s.ra[2] + k*siderealHourRad + siderealHourRad
	ha1 := (ha0 + ha2) / 2

	s.dec[1] = (s.dec[0] + s.dec[2]) / 2

	if hour <= 0 {
		s.vhz[0] = s.altitude(s.dec[0], ha0)
	}
	s.vhz[2] = s.altitude(s.dec[2], ha2)

	if sign(s.vhz[0]) == sign(s.vhz[2]) {
		return
	}

	s.vhz[1] = s.altitude(s.dec[1], ha1)

	// Парабола через три выборки: v(e) = a·e² + b·e + v0, e ∈ [0, 1].
	a := 2*s.vhz[0] - 4*s.vhz[1] + 2*s.vhz[2]
	b := -3*s.vhz[0] + 4*s.vhz[1] - s.vhz[2]
	d := b*b - 4*a*s.vhz[0]

	if d < 0 {
		return
	}

	d = math.Sqrt(d)

	var e float64
	if a == 0 {
		// Вырожденная парабола: прямая.
		e = -s.vhz[0] / b
	} else {
		e = (-b + d) / (2 * a)
		if e > 1 || e < 0 {
			e = (-b - d) / (2 * a)
		}
	}

	// Округление до ближайшей минуты (+30 секунд).
	t := k + e + 1.0/120
	h := math.Floor(t)
	m := math.Floor((t - h) * 60)

	if h >= stepsPerDay {
		h, m = stepsPerDay-1, 59
	}

	hz := ha0 + e*(ha2-ha0)
	nz := -math.Cos(s.dec[1]) * math.Sin(hz)
	dz := s.cosLat*math.Sin(s.dec[1]) - s.sinLat*math.Cos(s.dec[1])*math.Cos(hz)

	azimuth := math.Atan2(nz, dz) * geodesy.Rad2Deg
	if azimuth < 0 {
		azimuth += 360
	}

	crossing := &Crossing{Hour: int(h), Minute: int(m), Azimuth: azimuth}

	if s.vhz[0] < 0 && s.vhz[2] > 0 {
		s.rise = crossing
	}
	if s.vhz[0] > 0 && s.vhz[2] < 0 {
		s.set = crossing
	}
}
