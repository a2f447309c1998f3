package util

import (
	"bytes"
	"encoding/json"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
)

func IsMidiPath(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasSuffix(lower, ".mid") || strings.HasSuffix(lower, ".midi")
}

// GatherAllMidiPaths walks path and returns every .mid/.midi file in lexical
// order, stopping at maxNum files when maxNum > 0.
func GatherAllMidiPaths(path string, maxNum int) ([]string, error) {
	var res []string
	walk := func(s string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && IsMidiPath(s) {
			if maxNum == 0 || len(res) < maxNum {
				res = append(res, s)
			}
		}
		return nil
	}
	if err := filepath.WalkDir(path, walk); err != nil {
		return nil, errors.Wrapf(err, "walking %v", path)
	}
	return res, nil
}

// GetKeys returns the keys of m in ascending order.
func GetKeys[A constraints.Ordered, B any](m map[A]B) []A {
	keys := make([]A, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i] < keys[j]
	})
	return keys
}

func Clamp[A constraints.Ordered](v, lo, hi A) A {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Round rounds half to even.
func Round(f float64) int {
	return int(math.RoundToEven(f))
}

// WriteJSON encodes data into filename and returns the number of bytes
// written.
func WriteJSON(filename string, data any, compact bool) (int, error) {
	buf, err := EncodeJSON(data, compact)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return 0, errors.Wrapf(err, "creating directory for %v", filename)
	}
	if err := os.WriteFile(filename, buf, 0644); err != nil {
		return 0, errors.Wrapf(err, "writing %v", filename)
	}
	return len(buf), nil
}

func EncodeJSON(data any, compact bool) ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	if !compact {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(data); err != nil {
		return nil, errors.Wrap(err, "encoding json")
	}
	return buf.Bytes(), nil
}
