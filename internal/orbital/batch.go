package orbital

import (
	"strings"

	"github.com/pkg/errors"
)

// record — строки одного набора элементов внутри пакета.
type record struct {
	index int // Порядковый номер набора в пакете (с 0).
	first int // Номер первой строки набора в исходном тексте (с 1).
	size  int // Ожидаемое число строк: 2 или 3.
	lines []string
}

// ParseBatch разбирает несколько наборов элементов из одного текста.
// Наборы идут подряд в 2-line или 3-line формате, пустые строки игнорируются.
// Первая же ошибка прерывает разбор; она оборачивается номером набора
// и сохраняет цепочку для errors.Is и errors.As.
func ParseBatch(data string, opts ...Option) ([]*ElementSet, error) {
	var sets []*ElementSet

	for _, rec := range splitRecords(strings.Split(data, "\n")) {
		es, err := parseRecord(rec, opts)
		if err != nil {
			return nil, errors.Wrapf(err, "element set %d (line %d)", rec.index+1, rec.first)
		}
		sets = append(sets, es)
	}

	return sets, nil
}

func parseRecord(rec record, opts []Option) (*ElementSet, error) {
	if len(rec.lines) < rec.size {
		return nil, errors.Wrapf(ErrLineCount, "incomplete element set: got %d of %d lines", len(rec.lines), rec.size)
	}

	switch len(rec.lines) {
	case 2:
		return ParseLines("", rec.lines[0], rec.lines[1], opts...)
	case 3:
		return ParseLines(rec.lines[0], rec.lines[1], rec.lines[2], opts...)
	default:
		return nil, errors.Wrapf(ErrLineCount, "got %d", len(rec.lines))
	}
}

// splitRecords группирует непустые строки в наборы: пара "1 ..."/"2 ..." — 2-line набор,
// одиночная строка "1 ..." или "2 ..." — неполный набор, иначе первая строка считается
// именем 3-line набора. Неполные наборы не проходят разбор.
func splitRecords(raw []string) []record {
	type numbered struct {
		n    int
		text string
	}

	var lines []numbered
	for i, l := range raw {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, numbered{n: i + 1, text: l})
		}
	}

	var records []record

	for i := 0; i < len(lines); {
		size, take := 3, 3
		switch {
		case isElementLine(lines[i].text, '1') && i+1 < len(lines) && isElementLine(lines[i+1].text, '2'):
			size, take = 2, 2
		case isElementLine(lines[i].text, '1'), isElementLine(lines[i].text, '2'):
			// Строка элементов без пары не может быть именем: набор неполный.
			size, take = 2, 1
		}

		rec := record{index: len(records), first: lines[i].n, size: size}
		for _, l := range lines[i:min(i+take, len(lines))] {
			rec.lines = append(rec.lines, l.text)
		}

		records = append(records, rec)
		i += take
	}

	return records
}

// isElementLine сообщает, начинается ли строка с номера строки TLE и пробела.
func isElementLine(line string, number byte) bool {
	return len(line) >= 2 && line[0] == number && line[1] == ' '
}
