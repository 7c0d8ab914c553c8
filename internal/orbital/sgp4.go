package orbital

import (
	"errors"
	"fmt"
	"strings"

	satellite "github.com/joshuaferrara/go-satellite"
)

// Ошибки подготовки записи SGP4.
var (
	ErrNilElementSet    = errors.New("element set is nil")
	ErrSGP4Incompatible = errors.New("element set cannot be handed to SGP4")
)

// GravityModel определяет модель гравитации для SGP4.
type GravityModel int

const (
	// GravityWGS72 — модель WGS-72 (стандарт для TLE).
	GravityWGS72 GravityModel = iota
	// GravityWGS84 — модель WGS-84.
	GravityWGS84
)

// String возвращает имя модели.
func (g GravityModel) String() string {
	switch g {
	case GravityWGS72:
		return "wgs72"
	case GravityWGS84:
		return "wgs84"
	default:
		return fmt.Sprintf("GravityModel(%d)", int(g))
	}
}

// SGP4 передаёт проверенные строки набора в инициализатор записи go-satellite.
// Пропагация не выполняется: запись предназначена для внешнего кода.
// Alpha-5 номера и пустые поля с неявной точкой go-satellite не поддерживает.
func (es *ElementSet) SGP4(gravity GravityModel) (satellite.Satellite, error) {
	if es == nil {
		return satellite.Satellite{}, ErrNilElementSet
	}

	if err := es.sgp4Compatible(); err != nil {
		return satellite.Satellite{}, err
	}

	var gravConst satellite.Gravity

	switch gravity {
	case GravityWGS72:
		gravConst = satellite.GravityWGS72
	default:
		gravConst = satellite.GravityWGS84
	}

	return satellite.TLEToSat(es.Line1, es.Line2, gravConst), nil
}

// sgp4Compatible проверяет поля, которые go-satellite разбирает без обработки ошибок.
func (es *ElementSet) sgp4Compatible() error {
	if len(es.Line1) < LineLength || len(es.Line2) < LineLength {
		return fmt.Errorf("%w: missing original lines", ErrSGP4Incompatible)
	}

	if es.CatalogNumber > 99999 {
		return fmt.Errorf("%w: Alpha-5 catalog number %d", ErrSGP4Incompatible, es.CatalogNumber)
	}

	for _, f := range []struct {
		name       string
		start, end int
	}{
		{"mean motion second derivative", 45, 52},
		{"BSTAR", 54, 61},
	} {
		if strings.TrimSpace(es.Line1[f.start-1:f.end]) == "" {
			return fmt.Errorf("%w: blank %s", ErrSGP4Incompatible, f.name)
		}
	}

	return nil
}
