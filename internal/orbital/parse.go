package orbital

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Ошибки разбора TLE.
var (
	ErrLineCount       = errors.New("element set must have 2 or 3 non-empty lines")
	ErrLineTooShort    = errors.New("TLE line too short")
	ErrLineNumber      = errors.New("invalid TLE line number")
	ErrChecksum        = errors.New("invalid TLE checksum")
	ErrCatalogMismatch = errors.New("catalog number mismatch between lines")
	ErrInvalidAlpha5   = errors.New("invalid Alpha-5 catalog number")
	ErrClassification  = errors.New("classification must be one of U, C, S")
	ErrInvalidNumber   = errors.New("invalid numeric field")
)

// LineLength — длина строки TLE вместе с контрольной суммой.
const LineLength = 69

// alpha5Map — буквенные префиксы Alpha-5 для каталожных номеров больше 99999.
// Буквы I и O не используются (путаются с 1 и 0). A=10, ..., Z=33.
var alpha5Map = map[byte]int{
	'A': 10, 'B': 11, 'C': 12, 'D': 13, 'E': 14, 'F': 15, 'G': 16, 'H': 17,
	'J': 18, 'K': 19, 'L': 20, 'M': 21, 'N': 22,
	'P': 23, 'Q': 24, 'R': 25, 'S': 26, 'T': 27, 'U': 28, 'V': 29, 'W': 30,
	'X': 31, 'Y': 32, 'Z': 33,
}

// ParseError описывает поле TLE, которое не удалось разобрать.
// Колонки нумеруются с 1, диапазон включительный.
type ParseError struct {
	Line  int    // Номер строки TLE (1 или 2).
	Field string // Название поля.
	Start int    // Первая колонка поля.
	End   int    // Последняя колонка поля.
	Raw   string // Исходная подстрока.
	Err   error  // Причина.
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d, %s (columns %d-%d) %q: %v", e.Line, e.Field, e.Start, e.End, e.Raw, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Option настраивает разбор.
type Option func(*parseConfig)

type parseConfig struct {
	verifyChecksum bool
}

// WithoutChecksum отключает проверку контрольных сумм строк.
func WithoutChecksum() Option {
	return func(c *parseConfig) {
		c.verifyChecksum = false
	}
}

// WithChecksum включает или отключает проверку контрольных сумм строк.
func WithChecksum(verify bool) Option {
	return func(c *parseConfig) {
		c.verifyChecksum = verify
	}
}

func newParseConfig(opts []Option) parseConfig {
	cfg := parseConfig{verifyChecksum: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Parse разбирает набор элементов из текста. Формат определяется по числу непустых
// строк: 2 строки — без имени, 3 строки — первая строка содержит имя спутника.
// Любое некорректное поле возвращает *ParseError; функция никогда не паникует.
func Parse(raw string, opts ...Option) (*ElementSet, error) {
	lines := nonEmptyLines(raw)

	switch len(lines) {
	case 2:
		return ParseLines("", lines[0], lines[1], opts...)
	case 3:
		return ParseLines(lines[0], lines[1], lines[2], opts...)
	default:
		return nil, fmt.Errorf("%w: got %d", ErrLineCount, len(lines))
	}
}

// ParseLines разбирает набор элементов из имени и двух строк.
func ParseLines(name, line1, line2 string, opts ...Option) (*ElementSet, error) {
	p := lineParser{cfg: newParseConfig(opts)}

	es := &ElementSet{
		Name:  cleanName(name),
		Line1: strings.TrimSpace(line1),
		Line2: strings.TrimSpace(line2),
	}

	if err := p.parseLine1(es, es.Line1); err != nil {
		return nil, err
	}
	if err := p.parseLine2(es, es.Line2); err != nil {
		return nil, err
	}

	return es, nil
}

// lineParser извлекает поля по фиксированным колонкам.
type lineParser struct {
	cfg  parseConfig
	line int
	text string
}

// parseLine1 разбирает первую строку.
//
//	Col  1      Номер строки (1)
//	Col  3-7    Номер по каталогу (Alpha-5)
//	Col  8      Гриф (U/C/S)
//	Col 10-11   Год запуска
//	Col 12-14   Номер запуска в году
//	Col 15-17   Фрагмент
//	Col 19-20   Год эпохи
//	Col 21-32   День года эпохи
//	Col 34-43   Первая производная среднего движения
//	Col 45-52   Вторая производная (неявная точка)
//	Col 54-61   B* (неявная точка)
//	Col 63      Тип эфемериды
//	Col 65-68   Номер набора
//	Col 69      Контрольная сумма
func (p *lineParser) parseLine1(es *ElementSet, line string) error {
	if err := p.begin(1, line); err != nil {
		return err
	}

	var err error

	if es.CatalogNumber, err = p.catalog(); err != nil {
		return err
	}

	raw := p.field(8, 8)
	cl, ok := parseClassification(raw[0])
	if !ok {
		return p.fail("classification", 8, 8, ErrClassification)
	}
	es.Classification = cl

	if s := strings.TrimSpace(p.field(10, 11)); s != "" {
		yy, err := p.integer("launch year", 10, 11)
		if err != nil {
			return err
		}
		es.LaunchYear = fullYear(yy)
	}
	if es.LaunchNumber, err = p.optionalInteger("launch number", 12, 14); err != nil {
		return err
	}
	es.LaunchPiece = strings.TrimSpace(p.field(15, 17))

	yy, err := p.integer("epoch year", 19, 20)
	if err != nil {
		return err
	}
	es.EpochYear = fullYear(yy)

	if es.EpochDay, err = p.float("epoch day", 21, 32); err != nil {
		return err
	}
	if es.MeanMotionDot, err = p.float("mean motion first derivative", 34, 43); err != nil {
		return err
	}
	if es.MeanMotionDDot, err = p.implicitDecimal("mean motion second derivative", 45, 52); err != nil {
		return err
	}
	if es.BStar, err = p.implicitDecimal("BSTAR", 54, 61); err != nil {
		return err
	}
	if es.EphemerisType, err = p.optionalInteger("ephemeris type", 63, 63); err != nil {
		return err
	}
	if es.ElementSetNo, err = p.optionalInteger("element set number", 65, 68); err != nil {
		return err
	}

	return nil
}

// parseLine2 разбирает вторую строку.
//
//	Col  1      Номер строки (2)
//	Col  3-7    Номер по каталогу
//	Col  9-16   Наклонение
//	Col 18-25   Долгота восходящего узла
//	Col 27-33   Эксцентриситет (неявная ведущая точка)
//	Col 35-42   Аргумент перигея
//	Col 44-51   Средняя аномалия
//	Col 53-63   Среднее движение
//	Col 64-68   Номер витка
//	Col 69      Контрольная сумма
func (p *lineParser) parseLine2(es *ElementSet, line string) error {
	if err := p.begin(2, line); err != nil {
		return err
	}

	catalog, err := p.catalog()
	if err != nil {
		return err
	}
	if catalog != es.CatalogNumber {
		return p.fail("catalog number", 3, 7,
			fmt.Errorf("%w: line 1 has %d, line 2 has %d", ErrCatalogMismatch, es.CatalogNumber, catalog))
	}

	if es.Inclination, err = p.float("inclination", 9, 16); err != nil {
		return err
	}
	if es.RAAN, err = p.float("right ascension of ascending node", 18, 25); err != nil {
		return err
	}
	if es.Eccentricity, err = p.eccentricity(27, 33); err != nil {
		return err
	}
	if es.ArgOfPerigee, err = p.float("argument of perigee", 35, 42); err != nil {
		return err
	}
	if es.MeanAnomaly, err = p.float("mean anomaly", 44, 51); err != nil {
		return err
	}
	if es.MeanMotion, err = p.float("mean motion", 53, 63); err != nil {
		return err
	}
	if es.RevolutionNumber, err = p.optionalInteger("revolution number", 64, 68); err != nil {
		return err
	}

	return nil
}

// begin проверяет длину, номер строки и контрольную сумму.
func (p *lineParser) begin(lineNo int, text string) error {
	p.line = lineNo
	p.text = text

	if len(text) < LineLength {
		return p.fail("line length", 1, len(text),
			fmt.Errorf("%w: %d characters, need %d", ErrLineTooShort, len(text), LineLength))
	}

	if want := byte('0' + lineNo); text[0] != want {
		return p.fail("line number", 1, 1, fmt.Errorf("%w: expected %c", ErrLineNumber, want))
	}

	if !p.cfg.verifyChecksum {
		return nil
	}

	raw := p.field(LineLength, LineLength)
	if raw[0] < '0' || raw[0] > '9' {
		return p.fail("checksum", LineLength, LineLength, fmt.Errorf("%w: not a digit", ErrChecksum))
	}

	if want := calculateChecksum(text[:LineLength-1]); int(raw[0]-'0') != want {
		return p.fail("checksum", LineLength, LineLength, fmt.Errorf("%w: computed %d", ErrChecksum, want))
	}

	return nil
}

// field возвращает подстроку по колонкам start..end (с 1, включительно).
func (p *lineParser) field(start, end int) string {
	return p.text[start-1 : end]
}

// fail создаёт ошибку разбора поля.
func (p *lineParser) fail(name string, start, end int, err error) *ParseError {
	raw := ""
	if start >= 1 && end <= len(p.text) && start <= end {
		raw = p.field(start, end)
	}

	return &ParseError{Line: p.line, Field: name, Start: start, End: end, Raw: raw, Err: err}
}

func (p *lineParser) integer(name string, start, end int) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(p.field(start, end)))
	if err != nil {
		return 0, p.fail(name, start, end, fmt.Errorf("%w: %v", ErrInvalidNumber, err))
	}
	return v, nil
}

// optionalInteger разбирает целое поле; пустое поле даёт 0.
func (p *lineParser) optionalInteger(name string, start, end int) (int, error) {
	if strings.TrimSpace(p.field(start, end)) == "" {
		return 0, nil
	}
	return p.integer(name, start, end)
}

func (p *lineParser) float(name string, start, end int) (float64, error) {
	s := strings.TrimSpace(p.field(start, end))

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, p.fail(name, start, end, fmt.Errorf("%w: %q", ErrInvalidNumber, s))
	}
	return v, nil
}

// catalog разбирает номер по каталогу (колонки 3-7).
func (p *lineParser) catalog() (int, error) {
	id, err := parseCatalogNumber(strings.TrimSpace(p.field(3, 7)))
	if err != nil {
		return 0, p.fail("catalog number", 3, 7, err)
	}
	return id, nil
}

// eccentricity разбирает эксцентриситет с неявной ведущей точкой: "0006703" = 0.0006703.
func (p *lineParser) eccentricity(start, end int) (float64, error) {
	s := strings.TrimSpace(p.field(start, end))
	if s == "" || !isDigits(s) {
		return 0, p.fail("eccentricity", start, end, fmt.Errorf("%w: expected digits", ErrInvalidNumber))
	}

	v, err := strconv.ParseFloat("0."+s, 64)
	if err != nil {
		return 0, p.fail("eccentricity", start, end, fmt.Errorf("%w: %v", ErrInvalidNumber, err))
	}
	return v, nil
}

func (p *lineParser) implicitDecimal(name string, start, end int) (float64, error) {
	v, err := parseImplicitDecimal(p.field(start, end))
	if err != nil {
		return 0, p.fail(name, start, end, err)
	}
	return v, nil
}

// parseImplicitDecimal разбирает запись с неявной точкой вида "[±]NNNNN[±]E",
// что означает ±0.NNNNN × 10^±E. Экспонента обязательна и состоит из одной цифры.
// Пустое поле даёт 0.
func parseImplicitDecimal(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, nil
	}

	sign := 1.0
	switch s[0] {
	case '-':
		sign = -1
		s = s[1:]
	case '+':
		s = s[1:]
	}

	// Экспонента — знак и ровно одна цифра в конце поля.
	if len(s) < 3 || !strings.ContainsRune("+-", rune(s[len(s)-2])) || !isDigits(s[len(s)-1:]) {
		return 0, fmt.Errorf("%w: exponent must be [+-]D in %q", ErrInvalidNumber, raw)
	}
	mantissa, exponent := s[:len(s)-2], s[len(s)-2:]

	if mantissa == "" || !isDigits(mantissa) {
		return 0, fmt.Errorf("%w: mantissa %q", ErrInvalidNumber, mantissa)
	}

	m, err := strconv.ParseFloat("0."+mantissa, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: mantissa %q", ErrInvalidNumber, mantissa)
	}

	e, err := strconv.Atoi(exponent)
	if err != nil {
		return 0, fmt.Errorf("%w: exponent %q", ErrInvalidNumber, exponent)
	}

	return sign * m * math.Pow10(e), nil
}

// parseCatalogNumber разбирает номер по каталогу NORAD.
// Обычный формат — до 5 цифр, Alpha-5 — буква и 4 цифры (A0000 = 100000, Z9999 = 339999).
func parseCatalogNumber(s string) (int, error) {
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidNumber)
	}

	first := s[0]
	if first >= 'A' && first <= 'Z' {
		prefix, ok := alpha5Map[first]
		if !ok {
			return 0, fmt.Errorf("%w: letter %c is not used", ErrInvalidAlpha5, first)
		}

		rest := s[1:]
		if len(rest) != 4 || !isDigits(rest) {
			return 0, fmt.Errorf("%w: expected letter and 4 digits", ErrInvalidAlpha5)
		}

		n, _ := strconv.Atoi(rest)

		return prefix*10000 + n, nil
	}

	if !isDigits(s) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, s)
	}

	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidNumber, err)
	}
	return id, nil
}

// calculateChecksum вычисляет контрольную сумму по модулю 10:
// сумма цифр плюс 1 за каждый минус.
func calculateChecksum(line string) int {
	sum := 0
	for i := 0; i < len(line); i++ {
		switch c := line[i]; {
		case c >= '0' && c <= '9':
			sum += int(c - '0')
		case c == '-':
			sum++
		}
	}
	return sum % 10
}

// AppendChecksum дополняет строку из 68 символов контрольной суммой.
func AppendChecksum(line68 string) (string, error) {
	if len(line68) != LineLength-1 {
		return "", fmt.Errorf("%w: %d characters, need %d", ErrLineTooShort, len(line68), LineLength-1)
	}
	return line68 + strconv.Itoa(calculateChecksum(line68)), nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// nonEmptyLines возвращает непустые строки текста без окружающих пробелов.
func nonEmptyLines(raw string) []string {
	var lines []string
	for _, l := range strings.Split(raw, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// cleanName убирает пробелы и префикс "0 " формата 3LE.
func cleanName(name string) string {
	name = strings.TrimSpace(name)
	if strings.HasPrefix(name, "0 ") {
		name = strings.TrimSpace(name[2:])
	}
	return name
}
