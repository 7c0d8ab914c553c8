package orbital

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

// withChecksum добавляет корректную контрольную сумму к строке TLE из 68 символов.
func withChecksum(line68 string) string {
	full, err := AppendChecksum(line68)
	if err != nil {
		panic(fmt.Sprintf("line must be 68 chars: %v", err))
	}
	return full
}

var (
	meteorLine1 = withChecksum("1 40069U 14037A   24001.50000000  .00000123  00000-0  12345-4 0  999")
	meteorLine2 = withChecksum("2 40069  98.5200  45.6789 0001234 123.4567 236.7890 14.2098765432109")

	testBatch = issName + "\n" + issLine1 + "\n" + issLine2 + "\n" +
		"\n" +
		meteorLine1 + "\n" + meteorLine2 + "\n" +
		"METEOR-M 2\n" + meteorLine1 + "\n" + meteorLine2 + "\n"
)

func TestParseBatch(t *testing.T) {
	sets, err := ParseBatch(testBatch)
	if err != nil {
		t.Fatalf("ParseBatch() error = %v", err)
	}

	if len(sets) != 3 {
		t.Fatalf("got %d element sets, want 3", len(sets))
	}

	want := []struct {
		name    string
		catalog int
	}{
		{issName, 25544},
		{"", 40069},
		{"METEOR-M 2", 40069},
	}

	for i, w := range want {
		if sets[i].Name != w.name || sets[i].CatalogNumber != w.catalog {
			t.Errorf("set %d = %q/%d, want %q/%d", i, sets[i].Name, sets[i].CatalogNumber, w.name, w.catalog)
		}
	}
}

func TestParseBatch_Empty(t *testing.T) {
	sets, err := ParseBatch("\n\n  \n")
	if err != nil {
		t.Fatalf("ParseBatch() error = %v", err)
	}
	if len(sets) != 0 {
		t.Errorf("got %d element sets, want 0", len(sets))
	}
}

func TestParseBatch_WrapsRecordError(t *testing.T) {
	broken := issLine1[:LineLength-1] + "0"
	data := meteorLine1 + "\n" + meteorLine2 + "\n" + issName + "\n" + broken + "\n" + issLine2

	_, err := ParseBatch(data)
	if err == nil {
		t.Fatal("expected error")
	}

	if !strings.HasPrefix(err.Error(), "element set 2 (line 3): ") {
		t.Errorf("error = %q, want record prefix", err.Error())
	}
	if !errors.Is(err, ErrChecksum) {
		t.Errorf("errors.Is(err, ErrChecksum) = false: %v", err)
	}

	var pe *ParseError
	if !errors.As(err, &pe) || pe.Line != 1 {
		t.Errorf("errors.As(*ParseError) failed or wrong line: %v", err)
	}

	// Без проверки контрольной суммы тот же пакет разбирается.
	sets, err := ParseBatch(data, WithoutChecksum())
	if err != nil {
		t.Fatalf("ParseBatch(WithoutChecksum) error = %v", err)
	}
	if len(sets) != 2 {
		t.Errorf("got %d element sets, want 2", len(sets))
	}
}

func TestParseBatch_IncompleteTail(t *testing.T) {
	_, err := ParseBatch(issLine1 + "\n" + issLine2 + "\n" + issName + "\n" + issLine1)
	if !errors.Is(err, ErrLineCount) {
		t.Errorf("error = %v, want ErrLineCount", err)
	}
}

func TestParseBatch_OrphanElementLine(t *testing.T) {
	tests := map[string]string{
		"line 1": meteorLine1 + "\n" + issLine1 + "\n" + issLine2,
		"line 2": meteorLine2 + "\n" + issLine1 + "\n" + issLine2,
	}

	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseBatch(data)
			if !errors.Is(err, ErrLineCount) {
				t.Fatalf("error = %v, want ErrLineCount", err)
			}
			if !strings.HasPrefix(err.Error(), "element set 1 (line 1): ") {
				t.Errorf("error = %q, want prefix of element set 1", err)
			}
		})
	}
}

func TestSplitRecords(t *testing.T) {
	raw := []string{
		"",
		"NAME A",
		issLine1,
		issLine2,
		"   ",
		issLine1,
		issLine2,
		meteorLine1,
		issLine1,
		issLine2,
		"NAME B",
		issLine1,
	}

	records := splitRecords(raw)
	if len(records) != 5 {
		t.Fatalf("got %d records, want 5", len(records))
	}

	tests := []struct {
		first int
		size  int
	}{
		{2, 3},
		{6, 2},
		{8, 1},
		{9, 2},
		{11, 2},
	}

	for i, tt := range tests {
		rec := records[i]
		if rec.index != i || rec.first != tt.first || len(rec.lines) != tt.size {
			t.Errorf("record %d = {index %d, first %d, %d lines}, want {%d, %d, %d}",
				i, rec.index, rec.first, len(rec.lines), i, tt.first, tt.size)
		}
	}
}
