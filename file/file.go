package file

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jsphweid/buzzer/constants"
	"github.com/jsphweid/buzzer/model"
)

func CreateFileNumMap(paths []string) model.FileNumToMidiPath {
	res := make(model.FileNumToMidiPath)
	for i, v := range paths {
		res[uint32(i)] = v
	}
	return res
}

// OutputPath names the JSON written for src. An explicit 1-based track adds
// ".track<N>" to the name. An empty outDir writes next to src.
func OutputPath(src, outDir string, track int) string {
	base := filepath.Base(src)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if track > 0 {
		stem = fmt.Sprintf("%s.track%d", stem, track)
	}
	if outDir == "" {
		outDir = filepath.Dir(src)
	}
	return filepath.Join(outDir, stem+constants.OutputSuffix)
}
