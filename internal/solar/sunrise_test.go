package solar

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/nathan-osman/go-sunrise"
)

// observer — место наблюдения для тестов восхода и заката.
type observer struct {
	name string
	lat  float64
	lon  float64
	tz   int // Смещение зоны от UTC, секунды.
	date time.Time
}

var observers = []observer{
	{"New York summer", 40.7128, -74.0060, -4 * 3600, time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC)},
	{"New York winter", 40.7128, -74.0060, -5 * 3600, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
	{"Moscow", 55.7558, 37.6173, 3 * 3600, time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC)},
	{"Sydney", -33.8688, 151.2093, 10 * 3600, time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC)},
	{"Tokyo", 35.6895, 139.6917, 9 * 3600, time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC)},
}

// assertClose проверяет, что моменты отличаются не более чем на tolerance.
func assertClose(t *testing.T, label string, got, want time.Time, tolerance time.Duration) {
	t.Helper()

	diff := got.Sub(want)
	if diff < 0 {
		diff = -diff
	}
	if diff > tolerance {
		t.Errorf("%s = %s, reference %s (diff %v)", label, got.UTC(), want.UTC(), diff)
	}
}

// TestSunriseSunset_Equinox проверяет восход около 06:00 и закат около 18:00 на экваторе.
func TestSunriseSunset_Equinox(t *testing.T) {
	event, err := SunriseSunset(time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC), 0, 0, 0)
	if err != nil {
		t.Fatalf("SunriseSunset: %v", err)
	}

	if event.Rise == nil || event.Set == nil {
		t.Fatalf("expected rise and set, got %s", event)
	}
	if !event.Valid() {
		t.Errorf("event %+v is not valid", event)
	}

	const tolerance = 15 * 60
	if d := event.Rise.Seconds() - 6*3600; d > tolerance || d < -tolerance {
		t.Errorf("rise = %02d:%02d, want ~06:00", event.Rise.Hour, event.Rise.Minute)
	}
	if d := event.Set.Seconds() - 18*3600; d > tolerance || d < -tolerance {
		t.Errorf("set = %02d:%02d, want ~18:00", event.Set.Hour, event.Set.Minute)
	}

	// На экваторе в равноденствие Солнце восходит на востоке и заходит на западе.
	if !almostEqual(event.Rise.Azimuth, 90, 1) || !almostEqual(event.Set.Azimuth, 270, 1) {
		t.Errorf("azimuths = %.2f / %.2f, want ~90 / ~270", event.Rise.Azimuth, event.Set.Azimuth)
	}
}

// TestSunriseSunset_Polar проверяет полярный день и полярную ночь на 70° с.ш.
func TestSunriseSunset_Polar(t *testing.T) {
	tests := []struct {
		name   string
		date   time.Time
		always bool
	}{
		{"Summer solstice", time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC), true},
		{"Winter solstice", time.Date(2024, 12, 21, 0, 0, 0, 0, time.UTC), false},
	}

	for _, tt := range tests {
		for _, lon := range []float64{0, 25} {
			event, err := SunriseSunset(tt.date, 70, lon, LongitudeZoneSeconds(lon))
			if err != nil {
				t.Fatalf("%s: %v", tt.name, err)
			}

			if event.Rise != nil || event.Set != nil {
				t.Errorf("%s lon %v: unexpected crossing %s", tt.name, lon, event)
			}
			if event.AlwaysVisible != tt.always || event.NeverVisible == tt.always {
				t.Errorf("%s lon %v: always=%v never=%v", tt.name, lon, event.AlwaysVisible, event.NeverVisible)
			}
			if !event.Valid() {
				t.Errorf("%s lon %v: invalid event %+v", tt.name, lon, event)
			}
		}
	}
}

func TestSunriseSunset_ZoneMismatch(t *testing.T) {
	_, err := SunriseSunset(time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC), 40.7, -74, 3*3600)
	if !errors.Is(err, ErrZoneMismatch) {
		t.Errorf("error = %v, want ErrZoneMismatch", err)
	}

	// Нулевая зона совместима с любой долготой.
	if _, err := SunriseSunset(time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC), 40.7, -74, 0); err != nil {
		t.Errorf("zero zone: unexpected error %v", err)
	}
}

// TestSunriseSunset_MatchesGoSunrise сверяет итерационный метод с go-sunrise.
func TestSunriseSunset_MatchesGoSunrise(t *testing.T) {
	for _, o := range observers {
		t.Run(o.name, func(t *testing.T) {
			event, err := SunriseSunset(o.date, o.lat, o.lon, o.tz)
			if err != nil {
				t.Fatalf("SunriseSunset: %v", err)
			}

			wantRise, wantSet := sunrise.SunriseSunset(o.lat, o.lon, o.date.Year(), o.date.Month(), o.date.Day())

			rise, ok := event.RiseTime()
			if !ok {
				t.Fatalf("no rise: %s", event)
			}
			set, ok := event.SetTime()
			if !ok {
				t.Fatalf("no set: %s", event)
			}

			assertClose(t, "rise", rise, wantRise, 5*time.Minute)
			assertClose(t, "set", set, wantSet, 5*time.Minute)
		})
	}
}

// TestSunriseSunsetSimple_MatchesGoSunrise сверяет замкнутую формулу с go-sunrise.
func TestSunriseSunsetSimple_MatchesGoSunrise(t *testing.T) {
	for _, o := range observers {
		t.Run(o.name, func(t *testing.T) {
			wantRise, wantSet := sunrise.SunriseSunset(o.lat, o.lon, o.date.Year(), o.date.Month(), o.date.Day())

			rise, riseSec, ok := SunriseSunsetSimple(o.date, o.lat, o.lon, o.tz, true)
			if !ok {
				t.Fatal("no rise")
			}
			set, setSec, ok := SunriseSunsetSimple(o.date, o.lat, o.lon, o.tz, false)
			if !ok {
				t.Fatal("no set")
			}

			assertClose(t, "rise", rise, wantRise, 5*time.Minute)
			assertClose(t, "set", set, wantSet, 5*time.Minute)

			// Результат выражен в зоне наблюдателя.
			if _, offset := rise.Zone(); offset != o.tz {
				t.Errorf("rise zone offset = %d, want %d", offset, o.tz)
			}

			// Вторая величина — секунды от начала суток UTC.
			h, m, s := rise.UTC().Clock()
			if d := h*3600 + m*60 + s - riseSec; d < -1 || d > 1 {
				t.Errorf("rise seconds = %d, clock %02d:%02d:%02d", riseSec, h, m, s)
			}
			h, m, s = set.UTC().Clock()
			if d := h*3600 + m*60 + s - setSec; d < -1 || d > 1 {
				t.Errorf("set seconds = %d, clock %02d:%02d:%02d", setSec, h, m, s)
			}
		})
	}
}

// TestSunriseSunsetSimple_DayShift проверяет перенос события на соседние сутки UTC.
func TestSunriseSunsetSimple_DayShift(t *testing.T) {
	date := time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC)

	// Восход в Токио по UTC приходится на предыдущие сутки.
	rise, _, ok := SunriseSunsetSimple(date, 35.6895, 139.6917, 9*3600, true)
	if !ok {
		t.Fatal("no rise in Tokyo")
	}
	if d := rise.UTC().Day(); d != 20 {
		t.Errorf("Tokyo rise UTC day = %d, want 20", d)
	}
	if d := rise.Day(); d != 21 {
		t.Errorf("Tokyo rise local day = %d, want 21", d)
	}

	// Закат в Нью-Йорке по UTC приходится на следующие сутки.
	set, _, ok := SunriseSunsetSimple(date, 40.7128, -74.0060, -4*3600, false)
	if !ok {
		t.Fatal("no set in New York")
	}
	if d := set.UTC().Day(); d != 22 {
		t.Errorf("New York set UTC day = %d, want 22", d)
	}
	if d := set.Day(); d != 21 {
		t.Errorf("New York set local day = %d, want 21", d)
	}
}

func TestSunriseSunsetSimple_Polar(t *testing.T) {
	summer := time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC)
	winter := time.Date(2024, 12, 21, 0, 0, 0, 0, time.UTC)

	for _, date := range []time.Time{summer, winter} {
		for _, forRise := range []bool{true, false} {
			if at, _, ok := SunriseSunsetSimple(date, 70, 25, 2*3600, forRise); ok {
				t.Errorf("%s rise=%v: unexpected event at %s", date.Format(time.DateOnly), forRise, at)
			}
		}
	}

	if e := ClosedFormEvent(summer, 70, 25, 2*3600); !e.AlwaysVisible || !e.Valid() {
		t.Errorf("summer closed-form event = %+v, want always visible", e)
	}
	if e := ClosedFormEvent(winter, 70, 25, 2*3600); !e.NeverVisible || !e.Valid() {
		t.Errorf("winter closed-form event = %+v, want never visible", e)
	}
}

// TestStrategies_Independent проверяет, что обе стратегии дают близкие, но собственные ответы.
func TestStrategies_Independent(t *testing.T) {
	for _, o := range observers {
		iter, err := Compute(Iterative, o.date, o.lat, o.lon, o.tz)
		if err != nil {
			t.Fatalf("%s: iterative: %v", o.name, err)
		}
		closed, err := Compute(ClosedForm, o.date, o.lat, o.lon, o.tz)
		if err != nil {
			t.Fatalf("%s: closed form: %v", o.name, err)
		}

		if !iter.Valid() || !closed.Valid() {
			t.Fatalf("%s: invalid events %+v / %+v", o.name, iter, closed)
		}

		ir, _ := iter.RiseTime()
		cr, _ := closed.RiseTime()
		assertClose(t, o.name+" rise strategies", ir, cr, 10*time.Minute)

		if !almostEqual(iter.Rise.Azimuth, closed.Rise.Azimuth, 3) {
			t.Errorf("%s: rise azimuth %.2f vs %.2f", o.name, iter.Rise.Azimuth, closed.Rise.Azimuth)
		}
	}

	if _, err := Compute(Strategy(7), time.Now(), 0, 0, 0); !errors.Is(err, ErrUnknownStrategy) {
		t.Errorf("unknown strategy error = %v", err)
	}
}

// TestSunriseSunset_Concurrent проверяет, что параллельные вызовы не влияют друг на друга.
func TestSunriseSunset_Concurrent(t *testing.T) {
	want := make([]Event, len(observers))
	for i, o := range observers {
		event, err := SunriseSunset(o.date, o.lat, o.lon, o.tz)
		if err != nil {
			t.Fatalf("%s: %v", o.name, err)
		}
		want[i] = event
	}

	const rounds = 50

	var wg sync.WaitGroup

	errs := make(chan string, rounds*len(observers))

	for r := 0; r < rounds; r++ {
		for i, o := range observers {
			wg.Add(1)

			go func(i int, o observer) {
				defer wg.Done()

				got, err := SunriseSunset(o.date, o.lat, o.lon, o.tz)
				if err != nil {
					errs <- err.Error()
					return
				}
				if *got.Rise != *want[i].Rise || *got.Set != *want[i].Set {
					errs <- o.name + ": " + got.String() + " != " + want[i].String()
				}
			}(i, o)
		}
	}

	wg.Wait()
	close(errs)

	for msg := range errs {
		t.Error(msg)
	}
}
