package batch

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hako/durafmt"
	"github.com/jsphweid/buzzer/convert"
	"github.com/jsphweid/buzzer/file"
	"github.com/jsphweid/buzzer/model"
	"github.com/jsphweid/buzzer/util"
	"github.com/remeh/sizedwaitgroup"
	"github.com/sirupsen/logrus"
)

// Runner converts many files with the same options.
type Runner struct {
	Options convert.Options
	Config  model.Config
	OutDir  string // empty writes next to each source
	Compact bool
	Jobs    int // <= 0 uses one job per CPU
}

type Result struct {
	Path    string
	OutPath string
	Output  *model.Output
	Bytes   int
	Err     error
}

func (r Result) Ok() bool {
	return r.Err == nil
}

// Summary is the one line logged for a written file.
func Summary(res Result) string {
	out := res.Output
	length := durafmt.Parse(time.Duration(out.DurationMs()) * time.Millisecond).LimitFirstN(2)
	line := fmt.Sprintf("Wrote %v: %d notes, %d events, %v, %v", res.OutPath, out.NumNotes(), len(out.Events),
		length, humanize.Bytes(uint64(res.Bytes)))
	if out.FillTrackName != nil {
		return line + fmt.Sprintf(", choir=%v, fill=%v", out.SelectedTrackName, *out.FillTrackName)
	}
	return line + fmt.Sprintf(", track=%v", out.SelectedTrackName)
}

func (r Runner) processMidiFile(path string) Result {
	res := Result{Path: path}
	out, err := convert.File(path, r.Options, r.Config)
	if err != nil {
		res.Err = err
		return res
	}
	res.Output = out
	res.OutPath = file.OutputPath(path, r.OutDir, r.Options.Track)
	res.Bytes, res.Err = util.WriteJSON(res.OutPath, out, r.Compact)
	return res
}

func logResult(i, total int, res Result) {
	log := logrus.WithField("file", res.Path)
	switch {
	case res.Ok():
		log.Infof("(%d/%d) %v", i+1, total, Summary(res))
	case convert.IsSkip(res.Err):
		log.Warnf("(%d/%d) Skipping: %v", i+1, total, res.Err)
	default:
		log.Errorf("(%d/%d) Failed: %v", i+1, total, res.Err)
	}
}

// ProcessAllMidiFiles converts every file in m, in parallel, and returns the
// results ordered by file number. A failed file writes nothing.
func (r Runner) ProcessAllMidiFiles(m model.FileNumToMidiPath) []Result {
	keys := util.GetKeys(m)
	results := make([]Result, len(keys))

	jobs := r.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	var mu sync.Mutex
	var done int
	wg := sizedwaitgroup.New(jobs)
	for i, num := range keys {
		wg.Add()
		go func(i int, path string) {
			defer wg.Done()
			res := r.processMidiFile(path)
			results[i] = res

			mu.Lock()
			logResult(done, len(keys), res)
			done++
			mu.Unlock()
		}(i, m[num])
	}
	wg.Wait()
	return results
}

func (r Runner) ProcessPaths(paths []string) []Result {
	return r.ProcessAllMidiFiles(file.CreateFileNumMap(paths))
}

// Counts returns how many results succeeded, were skipped, and failed.
func Counts(results []Result) (ok, skipped, failed int) {
	for _, res := range results {
		switch {
		case res.Ok():
			ok++
		case convert.IsSkip(res.Err):
			skipped++
		default:
			failed++
		}
	}
	return ok, skipped, failed
}
