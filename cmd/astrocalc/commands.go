package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/art-injener/flatland-astro/internal/calendar"
	"github.com/art-injener/flatland-astro/internal/geodesy"
	"github.com/art-injener/flatland-astro/internal/orbital"
	"github.com/art-injener/flatland-astro/internal/solar"
)

// sun печатает восход и закат для наблюдателя.
func (a *app) sun(args []string) error {
	fs := a.newFlagSet("sun")

	obs := a.cfg.ObserverCoordinate()
	lat := fs.Float64("lat", obs.Latitude, "Observer latitude, degrees (north positive)")
	lon := fs.Float64("lon", obs.Longitude, "Observer longitude, degrees (east positive)")
	tz := fs.Int("tz", a.cfg.ZoneOffset, "Zone offset from UTC, seconds (east positive)")
	autoTZ := fs.Bool("auto-tz", false, "Derive the zone from longitude (15 degrees per hour)")
	dateStr := fs.String("date", "", "Date YYYY-MM-DD (default: today in the zone)")
	strategyName := fs.String("strategy", a.cfg.SunriseStrategy, "Algorithm: iterative or closed-form")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if !geodesy.NewCoordinate(*lat, *lon).Valid() {
		return fmt.Errorf("invalid observer %.4f,%.4f", *lat, *lon)
	}

	strategy, err := solar.ParseStrategy(*strategyName)
	if err != nil {
		return err
	}

	if *autoTZ {
		*tz = solar.LongitudeZoneSeconds(*lon)
	}
	loc := time.FixedZone("", *tz)

	date := time.Now().In(loc)
	if *dateStr != "" {
		if date, err = time.ParseInLocation(time.DateOnly, *dateStr, loc); err != nil {
			return fmt.Errorf("parse date: %w", err)
		}
	}

	event, err := solar.Compute(strategy, date, *lat, *lon, *tz)
	if err != nil {
		return err
	}

	a.logger.Debug("sun event computed",
		"strategy", strategy,
		"date", date.Format(time.DateOnly),
		"event", event.String(),
	)

	a.title("Sun  %s  %s  (%s, %s)", date.Format(time.DateOnly),
		geodesy.NewCoordinate(*lat, *lon), formatZone(*tz), strategy)

	switch {
	case event.AlwaysVisible:
		a.row("rise/set", "sun always visible")
	case event.NeverVisible:
		a.row("rise/set", "sun never visible")
	default:
		a.row("rise", "%s", formatCrossing(event.Rise))
		a.row("set", "%s", formatCrossing(event.Set))
	}

	daylight := time.Duration(solar.DaylightSeconds(event)) * time.Second
	a.row("daylight", "%dh%02dm", int(daylight.Hours()), int(daylight.Minutes())%60)

	noon := time.Date(date.Year(), date.Month(), date.Day(), 12, 0, 0, 0, loc)
	a.row("declination", "%.2f°", solar.MeanDeclination(noon))
	a.row("subsolar", "%s at local noon", solar.SubsolarPoint(noon))

	if rise, ok := event.RiseTime(); ok {
		a.note("rise instant %s", rise.Format(time.RFC3339))
	}

	return nil
}

// distance печатает расстояние между двумя точками.
func (a *app) distance(args []string) error {
	fs := a.newFlagSet("distance")

	fromStr := fs.String("from", "", "Start point lat,lon")
	toStr := fs.String("to", "", "End point lat,lon")
	radius := fs.Float64("radius", a.cfg.RadiusKm, "Sphere radius, km")
	points := fs.Int("points", 0, "Print the great-circle path with N points")

	if err := fs.Parse(args); err != nil {
		return err
	}

	from, to, err := parseEndpoints(*fromStr, *toStr)
	if err != nil {
		return err
	}
	if *radius <= 0 {
		return fmt.Errorf("radius must be positive, got %v", *radius)
	}

	a.title("Distance  %s -> %s", from, to)
	a.row("haversine", "%.3f km", geodesy.HaversineDistance(from, to, *radius))
	a.row("cosines", "%.3f km", geodesy.LawOfCosinesDistance(from, to, *radius))
	a.row("chord", "%.3f km", geodesy.ChordDistanceKm(from, to))
	a.row("bearing", "%.2f°", geodesy.Bearing(from, to, a.cfg.Bearing()))

	if *points == 0 {
		return nil
	}

	segments, err := geodesy.GreatCirclePath(from, to, *points)
	if err != nil {
		return err
	}

	for i, seg := range segments {
		a.note("segment %d", i+1)
		for _, p := range seg {
			a.note("  %s", p)
		}
	}

	return nil
}

// bearing печатает азимут между двумя точками.
func (a *app) bearing(args []string) error {
	fs := a.newFlagSet("bearing")

	fromStr := fs.String("from", "", "Start point lat,lon")
	toStr := fs.String("to", "", "End point lat,lon")
	strategyName := fs.String("strategy", a.cfg.BearingStrategy, "Strategy: great-circle or flat")

	if err := fs.Parse(args); err != nil {
		return err
	}

	from, to, err := parseEndpoints(*fromStr, *toStr)
	if err != nil {
		return err
	}

	strategy, err := geodesy.ParseBearingStrategy(*strategyName)
	if err != nil {
		return err
	}

	a.title("Bearing  %s -> %s  (%s)", from, to, strategy)
	a.row("bearing", "%.2f°", geodesy.Bearing(from, to, strategy))
	a.row("back", "%.2f°", geodesy.Bearing(to, from, strategy))

	return nil
}

// tle разбирает наборы элементов из файла или stdin.
func (a *app) tle(args []string) error {
	fs := a.newFlagSet("tle")

	file := fs.String("file", "-", "Element set file, - for stdin")
	noChecksum := fs.Bool("no-checksum", !a.cfg.VerifyChecksum, "Skip line checksum verification")
	name := fs.String("name", "", "Show only satellites whose name contains this string")
	sgp4 := fs.Bool("sgp4", false, "Check that each set can be handed to SGP4")
	out := fs.String("out", "", "Write the parsed catalog to this file")

	if err := fs.Parse(args); err != nil {
		return err
	}

	var r io.Reader = a.stdin
	if *file != "-" {
		f, err := os.Open(*file)
		if err != nil {
			return fmt.Errorf("open element sets: %w", err)
		}
		defer f.Close()
		r = f
	}

	catalog := orbital.NewCatalog(
		orbital.WithLogger(a.logger),
		orbital.WithParseOptions(orbital.WithChecksum(!*noChecksum)),
	)

	result, err := catalog.Load(r)
	if err != nil {
		return err
	}

	sets := catalog.All()
	if *name != "" {
		sets = catalog.ByName(*name)
	}

	a.title("Element sets  %d loaded, %d skipped", result.Loaded, result.Skipped)

	if stale := catalog.StaleCount(time.Now(), a.cfg.MaxAgeDays); stale > 0 {
		a.note("%d element sets older than %.1f days", stale, a.cfg.MaxAgeDays)
	}

	for _, es := range sets {
		label := es.Name
		if label == "" {
			label = "NORAD " + strconv.Itoa(es.CatalogNumber)
		}

		a.row(strconv.Itoa(es.CatalogNumber), "%s  %s", label, es.IntlDesignator())
		a.note("epoch %s  incl %.4f°  ecc %.7f  period %.2f min  perigee %.1f km  apogee %.1f km",
			es.Epoch().Format(time.RFC3339), es.Inclination, es.Eccentricity,
			es.OrbitalPeriod(), es.Perigee(), es.Apogee())

		if *sgp4 {
			if _, err := es.SGP4(orbital.GravityWGS72); err != nil {
				a.note("sgp4: %v", err)
			} else {
				a.note("sgp4: ok")
			}
		}
	}

	for _, err := range result.Errors {
		fmt.Fprintln(a.stderr, errorStyle.Render(err.Error()))
	}

	if *out != "" {
		return a.saveCatalog(catalog, *out)
	}

	return nil
}

// saveCatalog записывает каталог в файл.
func (a *app) saveCatalog(catalog *orbital.Catalog, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create catalog file: %w", err)
	}

	n, err := catalog.WriteTo(f)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("write catalog file: %w", err)
	}

	a.logger.Info("catalog saved", "path", path, "sets", catalog.Count(), "bytes", n)

	return nil
}

// julian переводит между календарной и юлианской датами.
func (a *app) julian(args []string) error {
	fs := a.newFlagSet("julian")

	dateStr := fs.String("date", "", "Instant in RFC3339")
	jdValue := fs.Float64("jd", 0, "Julian date to convert to the calendar")
	seasons := fs.Int("seasons", 0, "Print equinoxes and solstices for the year")

	if err := fs.Parse(args); err != nil {
		return err
	}

	// Нулевые значения допустимы, поэтому смотрим, какие флаги заданы явно.
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	switch {
	case set["seasons"]:
		a.title("Seasons  %d", *seasons)
		for _, s := range []calendar.Season{calendar.Spring, calendar.Summer, calendar.Fall, calendar.Winter} {
			a.row(s.String(), "%s", calendar.SeasonStart(*seasons, s).Format(time.RFC3339))
		}

	case set["jd"]:
		jd := calendar.JulianDate(*jdValue)
		d := calendar.JulianToGregorian(jd)
		h, m, s := d.Clock()

		a.title("Julian date  %.6f", *jdValue)
		a.row("calendar", "%04d-%02d-%02d %02d:%02d:%02d", d.Year, d.Month, d.Day, h, m, s)
		a.row("since J2000", "%.6f d", jd.SinceJ2000())

	default:
		t := time.Now().UTC()
		if *dateStr != "" {
			var err error
			if t, err = time.Parse(time.RFC3339, *dateStr); err != nil {
				return fmt.Errorf("parse date: %w", err)
			}
		}

		jd := calendar.FromTime(t)

		a.title("Date  %s", t.Format(time.RFC3339))
		a.row("julian date", "%.6f", float64(jd))
		a.row("since J2000", "%.6f d", jd.SinceJ2000())
		a.row("day of year", "%d of %d", calendar.DayOfYear(t), calendar.DaysInYear(t.Year()))
	}

	return nil
}

// parseEndpoints разбирает пару точек "lat,lon".
func parseEndpoints(from, to string) (geodesy.Coordinate, geodesy.Coordinate, error) {
	p1, err := parseCoordinate(from)
	if err != nil {
		return geodesy.Coordinate{}, geodesy.Coordinate{}, fmt.Errorf("-from: %w", err)
	}

	p2, err := parseCoordinate(to)
	if err != nil {
		return geodesy.Coordinate{}, geodesy.Coordinate{}, fmt.Errorf("-to: %w", err)
	}

	return p1, p2, nil
}

// parseCoordinate разбирает строку "lat,lon" в градусах.
func parseCoordinate(s string) (geodesy.Coordinate, error) {
	latStr, lonStr, ok := strings.Cut(s, ",")
	if !ok {
		return geodesy.Coordinate{}, fmt.Errorf("expected lat,lon, got %q", s)
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return geodesy.Coordinate{}, fmt.Errorf("latitude: %w", err)
	}

	lon, err := strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
	if err != nil {
		return geodesy.Coordinate{}, fmt.Errorf("longitude: %w", err)
	}

	c := geodesy.NewCoordinate(lat, lon)
	if !c.Valid() {
		return geodesy.Coordinate{}, fmt.Errorf("coordinate %s out of range", c)
	}

	return c, nil
}

// formatCrossing форматирует момент пересечения горизонта.
func formatCrossing(c *solar.Crossing) string {
	if c == nil {
		return "--:--"
	}
	return fmt.Sprintf("%02d:%02d  az %.1f°", c.Hour, c.Minute, c.Azimuth)
}

// formatZone форматирует смещение зоны как UTC±hh:mm.
func formatZone(offset int) string {
	sign := '+'
	if offset < 0 {
		sign = '-'
		offset = -offset
	}
	return fmt.Sprintf("UTC%c%02d:%02d", sign, offset/3600, offset%3600/60)
}
