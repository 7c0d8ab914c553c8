package geodesy

import "math"

// HaversineDistanceKm возвращает расстояние по дуге большого круга между точками
// на сфере радиуса EarthRadiusKm.
func HaversineDistanceKm(p1, p2 Coordinate) float64 {
	return HaversineDistance(p1, p2, EarthRadiusKm)
}

// HaversineDistance возвращает расстояние по дуге большого круга (формула гаверсинусов)
// в единицах radius. Для совпадающих точек возвращает ровно 0.
func HaversineDistance(p1, p2 Coordinate, radius float64) float64 {
	if p1.SameLocation(p2) {
		return 0
	}

	lat1 := p1.LatRad()
	lat2 := p2.LatRad()

	sinDLat := math.Sin((lat2 - lat1) / 2)
	sinDLon := math.Sin((p2.LonRad() - p1.LonRad()) / 2)

	a := sinDLat*sinDLat + math.Cos(lat1)*math.Cos(lat2)*sinDLon*sinDLon
	// a может немного выйти за 1 у антиподов.
	a = math.Min(1, a)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return radius * c
}

// LawOfCosines возвращает центральный угол между точками в радианах
// (сферическая теорема косинусов). Для расстояния умножьте на радиус.
func LawOfCosines(p1, p2 Coordinate) float64 {
	lat1 := p1.LatRad()
	lat2 := p2.LatRad()
	dLon := p2.LonRad() - p1.LonRad()

	cosC := math.Sin(lat1)*math.Sin(lat2) + math.Cos(lat1)*math.Cos(lat2)*math.Cos(dLon)

	return math.Acos(clamp(cosC))
}

// LawOfCosinesDistance возвращает расстояние по теореме косинусов в единицах radius.
func LawOfCosinesDistance(p1, p2 Coordinate, radius float64) float64 {
	return LawOfCosines(p1, p2) * radius
}

// PrimeMeridianDistanceKm возвращает расстояние по дуге большого круга от точки
// до нулевого меридиана на той же широте.
func PrimeMeridianDistanceKm(p Coordinate) float64 {
	return HaversineDistanceKm(p, Coordinate{Latitude: p.Latitude})
}
