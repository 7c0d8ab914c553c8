package solar

import (
	"math"
	"time"

	"github.com/art-injener/flatland-astro/internal/calendar"
	"github.com/art-injener/flatland-astro/internal/geodesy"
)

// ClosedFormZenith — зенитное расстояние горизонта в замкнутой формуле, градусы.
const ClosedFormZenith = 90.83

// closedFormResult — промежуточный результат замкнутой формулы.
type closedFormResult struct {
	ut       float64 // Всемирное время события, часы [0, 24).
	dayShift int     // Сдвиг суток события относительно исходной даты: -1, 0 или 1.
	cosH     float64 // Косинус часового угла; вне [-1, 1] события нет.
	sinDec   float64 // Синус склонения Солнца.
}

// closedForm решает уравнение часового угла для восхода (forRise) или заката.
// Возвращает false, если Солнце в этот день не пересекает горизонт.
func closedForm(date time.Time, latitude, longitude float64, forRise bool) (closedFormResult, bool) {
	n := float64(calendar.DayOfYear(date))
	lngHour := longitude / 15

	approx := 18.0
	if forRise {
		approx = 6.0
	}
	t := n + (approx-lngHour)/24

	// Средняя аномалия и истинная долгота Солнца, градусы.
	meanAnomaly := 0.9856*t - 3.289
	ma := meanAnomaly * geodesy.Deg2Rad

	l := normalize(meanAnomaly+1.916*math.Sin(ma)+0.020*math.Sin(2*ma)+282.634, 360)

	// Прямое восхождение в том же квадранте, что и долгота, часы.
	ra := normalize(math.Atan(0.91764*math.Tan(l*geodesy.Deg2Rad))*geodesy.Rad2Deg, 360)
	ra += math.Floor(l/90)*90 - math.Floor(ra/90)*90
	ra /= 15

	sinDec := 0.39782 * math.Sin(l*geodesy.Deg2Rad)
	cosDec := math.Cos(math.Asin(clamp(sinDec)))

	latRad := latitude * geodesy.Deg2Rad
	cosH := (math.Cos(ClosedFormZenith*geodesy.Deg2Rad) - sinDec*math.Sin(latRad)) / (cosDec * math.Cos(latRad))

	res := closedFormResult{cosH: cosH, sinDec: sinDec}

	// cosH > 1: Солнце не восходит, cosH < -1: не заходит.
	if cosH > 1 || cosH < -1 || math.IsNaN(cosH) {
		return res, false
	}

	h := math.Acos(cosH) * geodesy.Rad2Deg
	if forRise {
		h = 360 - h
	}
	h /= 15

	localMean := h + ra - 0.06571*t - 6.622
	res.ut = normalize(localMean-lngHour, 24)

	// Событие по UT попадает на соседние сутки.
	switch {
	case lngHour > 0 && res.ut > 12 && forRise:
		res.dayShift = -1
	case lngHour < 0 && res.ut < 12 && !forRise:
		res.dayShift = 1
	}

	return res, true
}

// SunriseSunsetSimple рассчитывает восход (forRise) или закат по замкнутой формуле
// часового угла. Это независимый от SunriseSunset алгоритм, результаты могут
// расходиться на несколько минут.
//
// Календарный день берётся из компонент date в её собственной зоне. Возвращает момент
// события в фиксированной зоне tzOffsetSeconds и секунды от начала суток UTC.
// ok == false, если в этот день события нет.
func SunriseSunsetSimple(date time.Time, latitude, longitude float64, tzOffsetSeconds int, forRise bool) (at time.Time, utSeconds int, ok bool) {
	res, ok := closedForm(date, latitude, longitude, forRise)
	if !ok {
		return time.Time{}, 0, false
	}

	return res.at(date, time.FixedZone("", tzOffsetSeconds)), int(res.ut * 3600), true
}

// at переводит всемирное время события в момент в зоне loc.
func (r closedFormResult) at(date time.Time, loc *time.Location) time.Time {
	year, month, day := date.Date()
	midnight := time.Date(year, month, day+r.dayShift, 0, 0, 0, 0, time.UTC)

	return midnight.Add(time.Duration(r.ut * float64(time.Hour))).Truncate(time.Second).In(loc)
}

// ClosedFormEvent собирает Event по замкнутой формуле. Часы и минуты выражены
// в зоне tzOffsetSeconds, азимут — точка горизонта без учёта рефракции.
func ClosedFormEvent(date time.Time, latitude, longitude float64, tzOffsetSeconds int) Event {
	loc := time.FixedZone("", tzOffsetSeconds)
	year, month, day := date.Date()

	event := Event{Midnight: time.Date(year, month, day, 0, 0, 0, 0, loc)}

	cosLat := math.Cos(latitude * geodesy.Deg2Rad)

	var polarCosH float64

	for _, forRise := range []bool{true, false} {
		res, ok := closedForm(date, latitude, longitude, forRise)
		if !ok {
			polarCosH = res.cosH
			continue
		}

		at := res.at(date, loc)

		azimuth := math.Acos(clamp(res.sinDec/cosLat)) * geodesy.Rad2Deg
		if !forRise {
			azimuth = 360 - azimuth
		}

		crossing := &Crossing{Hour: at.Hour(), Minute: at.Minute(), Azimuth: azimuth}
		if forRise {
			event.Rise = crossing
		} else {
			event.Set = crossing
		}
	}

	if event.Rise == nil && event.Set == nil {
		if polarCosH > 1 {
			event.NeverVisible = true
		} else {
			event.AlwaysVisible = true
		}
	}

	return event
}

// normalize приводит значение к диапазону [0, limit).
func normalize(v, limit float64) float64 {
	v = math.Mod(v, limit)
	if v < 0 {
		v += limit
	}
	return v
}
