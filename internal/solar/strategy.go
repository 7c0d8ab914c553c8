package solar

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/art-injener/flatland-astro/internal/calendar"
)

// ErrUnknownStrategy — неизвестная стратегия расчёта восхода и заката.
var ErrUnknownStrategy = errors.New("unknown sunrise strategy")

// Strategy — алгоритм расчёта восхода и заката.
// Алгоритмы независимы и не согласуются друг с другом.
type Strategy int

const (
	// Iterative — поиск пересечения горизонта по 24 часовым шагам (SunriseSunset).
	Iterative Strategy = iota

	// ClosedForm — замкнутая формула часового угла (SunriseSunsetSimple).
	ClosedForm
)

// String возвращает имя стратегии.
func (s Strategy) String() string {
	switch s {
	case Iterative:
		return "iterative"
	case ClosedForm:
		return "closed-form"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy разбирает имя стратегии ("iterative" или "closed-form").
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "iterative":
		return Iterative, nil
	case "closed-form", "closedform", "simple":
		return ClosedForm, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}

// Compute рассчитывает восход и закат выбранной стратегией.
func Compute(strategy Strategy, date time.Time, latitude, longitude float64, tzOffsetSeconds int) (Event, error) {
	switch strategy {
	case Iterative:
		return SunriseSunset(date, latitude, longitude, tzOffsetSeconds)
	case ClosedForm:
		return ClosedFormEvent(date, latitude, longitude, tzOffsetSeconds), nil
	default:
		return Event{}, fmt.Errorf("%w: %v", ErrUnknownStrategy, strategy)
	}
}

// LongitudeZoneSeconds возвращает смещение «астрономического» часового пояса
// для долготы: целое число часов, 15° на час, к западу отрицательно.
func LongitudeZoneSeconds(longitude float64) int {
	degrees := math.Round(longitude)
	hours := int(degrees / 180 * 12)

	return hours * 3600
}

// SunAboveHorizon сообщает, находится ли Солнце над горизонтом в момент t.
// Время суток берётся в зоне tzOffsetSeconds. ok == false, если восход и закат
// рассчитать не удалось.
func SunAboveHorizon(t time.Time, latitude, longitude float64, tzOffsetSeconds int) (above, ok bool) {
	local := t.In(time.FixedZone("", tzOffsetSeconds))

	event, err := SunriseSunset(local, latitude, longitude, tzOffsetSeconds)
	if err != nil {
		return false, false
	}

	switch {
	case event.AlwaysVisible:
		return true, true
	case event.NeverVisible:
		return false, true
	}

	hour, minute, sec := local.Clock()
	now := hour*3600 + minute*60 + sec

	switch {
	case event.Rise != nil && event.Set != nil:
		rise, set := event.Rise.Seconds(), event.Set.Seconds()
		if rise <= set {
			return now >= rise && now <= set, true
		}
		// Закат раньше восхода: светлое время переходит через полночь.
		return now >= rise || now <= set, true
	case event.Rise != nil:
		return now >= event.Rise.Seconds(), true
	default:
		return now <= event.Set.Seconds(), true
	}
}

// DaylightSeconds возвращает продолжительность светлого времени суток в секундах.
// Отсутствующий восход считается полуночью, отсутствующий закат — концом суток.
func DaylightSeconds(e Event) int {
	switch {
	case e.AlwaysVisible:
		return calendar.SecondsPerDay
	case e.NeverVisible, e.Rise == nil && e.Set == nil:
		return 0
	}

	rise, set := dayBounds(e)

	daylight := set - rise
	if daylight < 0 {
		daylight += calendar.SecondsPerDay
	}

	return daylight
}

// DayFractions возвращает моменты восхода и заката в долях суток [0, 1].
func DayFractions(e Event) (rise, set float64) {
	switch {
	case e.AlwaysVisible:
		return 0, 1
	case e.NeverVisible, e.Rise == nil && e.Set == nil:
		return 0, 0
	}

	r, s := dayBounds(e)

	return float64(r) / calendar.SecondsPerDay, float64(s) / calendar.SecondsPerDay
}

func dayBounds(e Event) (rise, set int) {
	set = calendar.SecondsPerDay
	if e.Rise != nil {
		rise = e.Rise.Seconds()
	}
	if e.Set != nil {
		set = e.Set.Seconds()
	}
	return rise, set
}
