package geodesy

import (
	"errors"
	"fmt"
	"math"
)

// Ошибки построения пути по дуге большого круга.
var (
	ErrPathPoints = errors.New("path needs at least 2 points")
	ErrAntipodal  = errors.New("great circle between antipodal points is undefined")
)

// Скачок долготы между соседними точками, означающий пересечение антимеридиана (градусы).
const antimeridianThreshold = 180.0

// Центральный угол (рад), начиная с которого точки считаются антиподами.
const antipodalAngle = math.Pi - 1e-6

// Intermediate возвращает точку на дуге большого круга между p1 и p2.
// f — доля пути: 0 соответствует p1, 1 соответствует p2. Высота интерполируется линейно.
// Для антиподов дуга не определена, возвращается p1.
func Intermediate(p1, p2 Coordinate, f float64) Coordinate {
	if p1.SameLocation(p2) {
		return p1
	}

	delta := HaversineDistance(p1, p2, 1)
	if delta < 1e-12 || delta > antipodalAngle {
		return p1
	}

	sinDelta := math.Sin(delta)

	a := math.Sin((1-f)*delta) / sinDelta
	b := math.Sin(f*delta) / sinDelta

	lat1, lon1 := p1.LatRad(), p1.LonRad()
	lat2, lon2 := p2.LatRad(), p2.LonRad()

	x := a*math.Cos(lat1)*math.Cos(lon1) + b*math.Cos(lat2)*math.Cos(lon2)
	y := a*math.Cos(lat1)*math.Sin(lon1) + b*math.Cos(lat2)*math.Sin(lon2)
	z := a*math.Sin(lat1) + b*math.Sin(lat2)

	return Coordinate{
		Latitude:  math.Atan2(z, math.Hypot(x, y)) * Rad2Deg,
		Longitude: math.Atan2(y, x) * Rad2Deg,
		Altitude:  p1.Altitude + (p2.Altitude-p1.Altitude)*f,
	}
}

// GreatCirclePath возвращает n равноотстоящих точек дуги большого круга от p1 до p2,
// разбитых на сегменты при пересечении антимеридиана (±180°).
// На границе каждого сегмента добавляется интерполированная точка.
func GreatCirclePath(p1, p2 Coordinate, n int) ([][]Coordinate, error) {
	if n < 2 {
		return nil, fmt.Errorf("%w: %d", ErrPathPoints, n)
	}

	if HaversineDistance(p1, p2, 1) > antipodalAngle {
		return nil, fmt.Errorf("%w: %s and %s", ErrAntipodal, p1, p2)
	}

	points := make([]Coordinate, 0, n)
	for i := 0; i < n; i++ {
		f := float64(i) / float64(n-1)
		points = append(points, Intermediate(p1, p2, f))
	}

	// Крайние точки возвращаем без погрешности интерполяции.
	points[0] = p1
	points[n-1] = p2

	return splitAtAntimeridian(points), nil
}

// splitAtAntimeridian разбивает массив точек на сегменты при пересечении антимеридиана.
func splitAtAntimeridian(points []Coordinate) [][]Coordinate {
	if len(points) == 0 {
		return nil
	}

	var segments [][]Coordinate
	currentSeg := []Coordinate{points[0]}

	for i := 1; i < len(points); i++ {
		if math.Abs(points[i].Longitude-points[i-1].Longitude) > antimeridianThreshold {
			boundaryPrev, boundaryNext := interpolateAntimeridian(points[i-1], points[i])

			currentSeg = append(currentSeg, boundaryPrev)
			segments = append(segments, currentSeg)

			currentSeg = []Coordinate{boundaryNext, points[i]}
		} else {
			currentSeg = append(currentSeg, points[i])
		}
	}

	return append(segments, currentSeg)
}

// interpolateAntimeridian вычисляет две точки на границе ±180°: на стороне p1 и на стороне p2.
func interpolateAntimeridian(p1, p2 Coordinate) (Coordinate, Coordinate) {
	// p1.Longitude > 0: переход через +180°, иначе через -180°.
	boundary1, boundary2 := -180.0, 180.0
	p2LonUnwrapped := p2.Longitude - 360.0

	if p1.Longitude > 0 {
		boundary1, boundary2 = 180.0, -180.0
		p2LonUnwrapped = p2.Longitude + 360.0
	}

	dLon := p2LonUnwrapped - p1.Longitude

	t := 0.5
	if math.Abs(dLon) > 1e-10 {
		t = (boundary1 - p1.Longitude) / dLon
	}

	t = math.Max(0.0, math.Min(1.0, t))

	lat := p1.Latitude + (p2.Latitude-p1.Latitude)*t
	alt := p1.Altitude + (p2.Altitude-p1.Altitude)*t

	return Coordinate{Latitude: lat, Longitude: boundary1, Altitude: alt},
		Coordinate{Latitude: lat, Longitude: boundary2, Altitude: alt}
}
