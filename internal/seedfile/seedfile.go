package seedfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
)

// Header is the first line written by Write.
const Header = "# buddhabrot seeds v1"

// ErrMalformed is wrapped by Read for lines that are not "re im" pairs.
var ErrMalformed = errors.New("malformed seed line")

// Write stores seeds as one "re im" pair per line after Header.
// Values are written with enough digits to round-trip exactly.
func Write(w io.Writer, seeds []complex128) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, Header); err != nil {
		return err
	}
	for _, c := range seeds {
		if _, err := fmt.Fprintf(bw, "%s %s\n", formatFloat(real(c)), formatFloat(imag(c))); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// Read parses seeds written by Write. Blank lines and lines starting with
// '#' are skipped. Non-finite values are rejected.
func Read(r io.Reader) ([]complex128, error) {
	var seeds []complex128
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.Fields(text)
		if len(fields) != 2 {
			return nil, fmt.Errorf("%w: line %d: want 2 fields, got %d", ErrMalformed, line, len(fields))
		}
		re, err := parseFinite(fields[0])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformed, line, err)
		}
		im, err := parseFinite(fields[1])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformed, line, err)
		}
		seeds = append(seeds, complex(re, im))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read seeds: %w", err)
	}
	return seeds, nil
}

func parseFinite(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("non-finite value %q", s)
	}
	return f, nil
}

// Save writes seeds to path. The file is replaced atomically so an
// interrupted save never leaves a truncated seed file behind.
func Save(path string, seeds []complex128) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create seed file: %w", err)
	}
	defer func() {
		if err != nil {
			os.Remove(tmp.Name())
		}
	}()

	if err = Write(tmp, seeds); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write seeds: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to write seeds: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to store seed file: %w", err)
	}
	return nil
}

// Load reads a seed file from disk.
func Load(path string) ([]complex128, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer f.Close()

	seeds, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return seeds, nil
}

// Cache keeps loaded seed files in memory, keyed by path.
//
// Cache is safe for concurrent use. Returned slices are clipped, so callers
// appending to them never write into the cached backing array.
type Cache struct {
	mu    sync.RWMutex
	seeds map[string][]complex128
}

// NewCache creates an empty Cache.
func NewCache() *Cache {
	return &Cache{
		seeds: make(map[string][]complex128),
	}
}

// Load returns the cached seeds for path, reading the file on first use.
func (c *Cache) Load(path string) ([]complex128, error) {
	c.mu.RLock()
	if s, ok := c.seeds[path]; ok {
		c.mu.RUnlock()
		return s, nil
	}
	c.mu.RUnlock()

	s, err := Load(path)
	if err != nil {
		return nil, err
	}
	s = slices.Clip(s)

	c.mu.Lock()
	c.seeds[path] = s
	c.mu.Unlock()

	return s, nil
}

// Store saves seeds to path and replaces the cached entry.
func (c *Cache) Store(path string, seeds []complex128) error {
	if err := Save(path, seeds); err != nil {
		return err
	}
	c.mu.Lock()
	c.seeds[path] = slices.Clip(slices.Clone(seeds))
	c.mu.Unlock()
	return nil
}

// Evict drops path from the cache. Unknown paths are ignored.
func (c *Cache) Evict(path string) {
	c.mu.Lock()
	delete(c.seeds, path)
	c.mu.Unlock()
}

// Len returns the number of cached files.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.seeds)
}
