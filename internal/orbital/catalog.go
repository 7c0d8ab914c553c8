package orbital

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// Catalog — потокобезопасное in-memory хранилище наборов элементов
// с индексами по номеру NORAD и по имени.
type Catalog struct {
	mu sync.RWMutex

	// Основное хранилище: номер по каталогу -> набор элементов.
	byID map[int]*ElementSet

	// Индекс по именам (lowercase): имя -> номера по каталогу.
	byName map[string][]int

	logger    *slog.Logger
	parseOpts []Option
}

// CatalogOption функция настройки Catalog.
type CatalogOption func(*Catalog)

// WithLogger логгер для Catalog.
func WithLogger(logger *slog.Logger) CatalogOption {
	return func(c *Catalog) {
		c.logger = logger
	}
}

// WithParseOptions задаёт опции разбора для Load.
func WithParseOptions(opts ...Option) CatalogOption {
	return func(c *Catalog) {
		c.parseOpts = append(c.parseOpts, opts...)
	}
}

// NewCatalog создаёт пустой каталог.
func NewCatalog(opts ...CatalogOption) *Catalog {
	c := &Catalog{
		byID:   make(map[int]*ElementSet),
		byName: make(map[string][]int),
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// LoadResult — итог загрузки наборов в каталог.
type LoadResult struct {
	Loaded  int     // Добавлено или обновлено наборов.
	Skipped int     // Пропущено некорректных наборов.
	Errors  []error // Ошибки пропущенных наборов.
}

// Load читает наборы элементов из r. В отличие от ParseBatch некорректные наборы
// пропускаются с предупреждением в лог; ошибка возвращается только при сбое чтения.
func (c *Catalog) Load(r io.Reader) (LoadResult, error) {
	var (
		raw    []string
		result LoadResult
	)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		raw = append(raw, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return result, errors.Wrap(err, "reading element sets")
	}

	for _, rec := range splitRecords(raw) {
		es, err := parseRecord(rec, c.parseOpts)
		if err != nil {
			err = errors.Wrapf(err, "element set %d (line %d)", rec.index+1, rec.first)

			c.logger.Warn("skipping invalid element set",
				"record", rec.index+1,
				"line", rec.first,
				"error", err,
			)

			result.Skipped++
			result.Errors = append(result.Errors, err)

			continue
		}

		c.Add(es)
		result.Loaded++
	}

	c.logger.Info("element sets loaded",
		"loaded", result.Loaded,
		"skipped", result.Skipped,
		"total", c.Count(),
	)

	return result, nil
}

// Add добавляет набор в каталог, заменяя набор с тем же номером.
func (c *Catalog) Add(es *ElementSet) {
	if es == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if old, ok := c.byID[es.CatalogNumber]; ok {
		c.removeNameLocked(old)
	}

	c.byID[es.CatalogNumber] = es

	if es.Name != "" {
		key := strings.ToLower(es.Name)
		c.byName[key] = append(c.byName[key], es.CatalogNumber)
	}
}

// removeNameLocked удаляет набор из индекса имён. Вызывается под mu.
func (c *Catalog) removeNameLocked(es *ElementSet) {
	if es.Name == "" {
		return
	}

	key := strings.ToLower(es.Name)

	ids := slices.DeleteFunc(c.byName[key], func(id int) bool {
		return id == es.CatalogNumber
	})
	if len(ids) == 0 {
		delete(c.byName, key)
		return
	}
	c.byName[key] = ids
}

// Get возвращает набор по номеру NORAD.
func (c *Catalog) Get(catalogNumber int) (*ElementSet, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	es, ok := c.byID[catalogNumber]
	return es, ok
}

// ByName возвращает наборы по имени (без учёта регистра). При отсутствии точного
// совпадения выполняется поиск по подстроке. Результат отсортирован по номеру.
func (c *Catalog) ByName(name string) []*ElementSet {
	c.mu.RLock()
	defer c.mu.RUnlock()

	lowerName := strings.ToLower(strings.TrimSpace(name))

	var sets []*ElementSet

	if ids, ok := c.byName[lowerName]; ok {
		for _, id := range ids {
			if es, exists := c.byID[id]; exists {
				sets = append(sets, es)
			}
		}
	} else if lowerName != "" {
		for _, es := range c.byID {
			if strings.Contains(strings.ToLower(es.Name), lowerName) {
				sets = append(sets, es)
			}
		}
	}

	sortByCatalogNumber(sets)

	return sets
}

// All возвращает все наборы, отсортированные по номеру NORAD.
func (c *Catalog) All() []*ElementSet {
	c.mu.RLock()
	defer c.mu.RUnlock()

	sets := make([]*ElementSet, 0, len(c.byID))
	for _, es := range c.byID {
		sets = append(sets, es)
	}
	sortByCatalogNumber(sets)

	return sets
}

// Count возвращает число наборов в каталоге.
func (c *Catalog) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.byID)
}

// StaleCount возвращает число наборов старше maxAgeDays суток на момент now.
func (c *Catalog) StaleCount(now time.Time, maxAgeDays float64) int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	count := 0
	for _, es := range c.byID {
		if es.IsStale(now, maxAgeDays) {
			count++
		}
	}
	return count
}

// WriteTo записывает каталог в исходном 2-line/3-line формате по возрастанию номера.
// Результат читается обратно через Load.
func (c *Catalog) WriteTo(w io.Writer) (int64, error) {
	var written int64

	for _, es := range c.All() {
		n, err := fmt.Fprintln(w, es.String())
		written += int64(n)
		if err != nil {
			return written, errors.Wrapf(err, "writing element set %d", es.CatalogNumber)
		}
	}

	return written, nil
}

func sortByCatalogNumber(sets []*ElementSet) {
	slices.SortFunc(sets, func(a, b *ElementSet) int {
		return a.CatalogNumber - b.CatalogNumber
	})
}
