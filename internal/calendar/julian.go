// Package calendar реализует преобразования между гражданским календарём и юлианской датой.
package calendar

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

// Константы юлианской шкалы.
const (
	// J2000 — юлианская дата эпохи J2000.0 (1 января 2000, 12:00).
	J2000 JulianDate = 2451545.0

	// GregorianCutoverYear — год перехода на григорианский календарь.
	// Для более ранних лет поправка B не применяется (юлианский календарь).
	GregorianCutoverYear = 1582

	// gregorianCutoverJD — первый юлианский день григорианского календаря (15 октября 1582).
	gregorianCutoverJD = 2299161

	// SecondsPerDay — число секунд в сутках.
	SecondsPerDay = 24 * 60 * 60
)

// JulianDate — непрерывный счёт суток. Сутки начинаются в полдень UTC,
// поэтому полночь соответствует дробной части .5.
type JulianDate float64

// Date — календарная дата, полученная из юлианской даты.
// Fraction — доля суток (время), отсчитываемая от полуночи.
type Date struct {
	Year     int
	Month    int
	Day      int
	Fraction float64
}

// GregorianToJulian преобразует календарную дату в юлианскую.
// day может содержать дробную часть (время суток).
// Для year < 1582 используется юлианский календарь (без григорианской поправки).
func GregorianToJulian(year, month int, day float64) JulianDate {
	y := float64(year)
	m := float64(month)

	// Январь и февраль считаются 13-м и 14-м месяцами предыдущего года.
	if month <= 2 {
		y--
		m += 12
	}

	var b float64
	if year >= GregorianCutoverYear {
		a := math.Floor(y / 100)
		b = 2 - a + math.Floor(a/4)
	}

	jd := math.Floor(365.25*(y+4716)) +
		math.Floor(30.6001*(m+1)) +
		day + b - 1524.5

	return JulianDate(jd)
}

// FromTime возвращает юлианскую дату для момента t (по компонентам UTC).
func FromTime(t time.Time) JulianDate {
	t = t.UTC()

	seconds := float64(t.Hour()*3600+t.Minute()*60+t.Second()) + float64(t.Nanosecond())/1e9
	day := float64(t.Day()) + seconds/SecondsPerDay

	return GregorianToJulian(t.Year(), int(t.Month()), day)
}

// JulianToGregorian выполняет обратное преобразование юлианской даты в календарную.
// Григорианская поправка применяется начиная с 15 октября 1582.
func JulianToGregorian(jd JulianDate) Date {
	j := float64(jd) + 0.5
	z := math.Floor(j)
	f := j - z

	a := z
	if z >= gregorianCutoverJD {
		alpha := math.Floor((z - 1867216.25) / 36524.25)
		a = z + 1 + alpha - math.Floor(alpha/4)
	}

	b := a + 1524
	c := math.Floor((b - 122.1) / 365.25)
	d := math.Floor(365.25 * c)
	e := math.Floor((b - d) / 30.6001)

	day := b - d - math.Floor(30.6001*e) + f

	month := int(e - 13)
	if e < 14 {
		month = int(e - 1)
	}

	year := int(c - 4715)
	if month > 2 {
		year = int(c - 4716)
	}

	whole := math.Floor(day)

	return Date{
		Year:     year,
		Month:    month,
		Day:      int(whole),
		Fraction: day - whole,
	}
}

// FractionalDayToTime переводит долю суток в часы, минуты и секунды.
// Значения вне диапазона [0, 1] возвращают (0, 0, 0): это определённое
// значение-заглушка, а не ошибка. Нормализация — забота вызывающего.
func FractionalDayToTime(fraction float64) (hour, minute, second int) {
	if fraction < 0 || fraction > 1 {
		return 0, 0, 0
	}

	total := int(fraction * SecondsPerDay)

	hour = total / 3600
	minute = (total % 3600) / 60
	second = total % 60

	return hour, minute, second
}

// Clock возвращает время суток даты.
func (d Date) Clock() (hour, minute, second int) {
	return FractionalDayToTime(d.Fraction)
}

// Time возвращает дату как момент времени UTC с точностью до наносекунд.
func (d Date) Time() time.Time {
	base := time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
	return base.Add(time.Duration(d.Fraction * SecondsPerDay * float64(time.Second)))
}

// Time возвращает юлианскую дату как момент времени UTC.
func (jd JulianDate) Time() time.Time {
	return JulianToGregorian(jd).Time()
}

// SinceJ2000 возвращает число суток от эпохи J2000.0.
func (jd JulianDate) SinceJ2000() float64 {
	return float64(jd - J2000)
}

// DaysInYear возвращает число дней в году по григорианскому правилу високосности.
func DaysInYear(year int) int {
	if julian.LeapYearGregorian(year) {
		return 366
	}
	return 365
}

// DayOfYear возвращает порядковый номер дня в году (1 = 1 января)
// по календарным компонентам t в его собственной временной зоне.
func DayOfYear(t time.Time) int {
	y, m, d := t.Date()
	return julian.DayOfYearGregorian(y, int(m), d)
}
