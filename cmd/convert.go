package cmd

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/jsphweid/buzzer/batch"
	"github.com/jsphweid/buzzer/constants"
	"github.com/jsphweid/buzzer/convert"
	"github.com/jsphweid/buzzer/util"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const (
	watchPoll     = 500 * time.Millisecond
	watchDebounce = 750 * time.Millisecond
)

var convertFlags struct {
	track          int
	choirTrack     int
	fillTrack      int
	prolongedMs    int
	maxRestMs      int
	noTrim         bool
	compact        bool
	gateRatio      float64
	loudnessLevels int
	jobs           int
	maxFiles       int
	outDir         string
	watch          bool
}

func init() {
	defaults := constants.DefaultConfig()
	f := convertCmd.Flags()
	f.IntVarP(&convertFlags.track, "track", "t", 0, "convert this track (1-based) instead of picking one")
	f.IntVar(&convertFlags.choirTrack, "choir-track", 0, "primary track (1-based), needs --fill-track")
	f.IntVar(&convertFlags.fillTrack, "fill-track", 0, "track (1-based) used to fill long pauses of --choir-track")
	f.IntVar(&convertFlags.prolongedMs, "prolonged-ms", defaults.ProlongedPauseMs, "rests at least this long (ms) are filled in choir+fill mode")
	f.IntVar(&convertFlags.maxRestMs, "max-rest-ms", 0, "cap every rest at this many ms (0 disables)")
	f.Lookup("max-rest-ms").NoOptDefVal = strconv.Itoa(constants.MaxRestMs)
	f.BoolVar(&convertFlags.noTrim, "no-trim", false, "keep leading rests")
	f.BoolVar(&convertFlags.compact, "compact", false, "write JSON without whitespace")
	f.Float64Var(&convertFlags.gateRatio, "gate-ratio", defaults.GateRatio, "portion of each note that is sounded")
	f.IntVar(&convertFlags.loudnessLevels, "loudness-levels", defaults.LoudnessLevels, "number of loudness levels")
	f.IntVarP(&convertFlags.jobs, "jobs", "j", 0, "files converted at once (0 = one per CPU)")
	f.IntVar(&convertFlags.maxFiles, "max-files", 0, "stop after this many discovered files (0 = all)")
	f.StringVarP(&convertFlags.outDir, "out-dir", "o", constants.GetOutDir(), "write output here instead of next to each source")
	f.BoolVarP(&convertFlags.watch, "watch", "w", false, "keep running and reconvert files when they change")
	rootCmd.AddCommand(convertCmd)
}

var convertCmd = &cobra.Command{
	Use:   "convert [files or directories...]",
	Short: "Converts MIDI files to .buzzer.json",
	Long: `Converts MIDI files to .buzzer.json. With no arguments every .mid/.midi
file under $BUZZER_MEDIA_DIR (default: current directory) is converted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		runner, err := newRunner()
		if err != nil {
			return err
		}
		paths, err := gatherPaths(args, convertFlags.maxFiles)
		if err != nil {
			return err
		}
		if len(paths) == 0 {
			logrus.Warn("No MIDI files found.")
			return nil
		}
		if !convertFlags.watch {
			return run(runner, paths)
		}

		if err := run(runner, paths); err != nil {
			logrus.Warn(err)
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		watch(ctx, paths, watchPoll, watchDebounce, func(changed []string) {
			runner.ProcessPaths(changed)
		})
		return nil
	},
}

func newRunner() (batch.Runner, error) {
	cfg := constants.DefaultConfig()
	cfg.GateRatio = convertFlags.gateRatio
	cfg.LoudnessLevels = convertFlags.loudnessLevels
	cfg.ProlongedPauseMs = convertFlags.prolongedMs
	cfg.MaxRestMs = convertFlags.maxRestMs
	cfg.TrimLeadingRests = !convertFlags.noTrim

	opts := convert.Options{
		Track:      convertFlags.track,
		ChoirTrack: convertFlags.choirTrack,
		FillTrack:  convertFlags.fillTrack,
	}
	if err := convert.ValidateOptions(opts); err != nil {
		return batch.Runner{}, err
	}
	if err := convert.ValidateConfig(cfg); err != nil {
		return batch.Runner{}, err
	}
	return batch.Runner{
		Options: opts,
		Config:  cfg,
		OutDir:  convertFlags.outDir,
		Compact: convertFlags.compact,
		Jobs:    convertFlags.jobs,
	}, nil
}

func gatherPaths(args []string, maxNum int) ([]string, error) {
	if len(args) == 0 {
		return util.GatherAllMidiPaths(constants.GetMediaDir(), maxNum)
	}
	var res []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, errors.Wrap(err, "finding input")
		}
		if !info.IsDir() {
			res = append(res, arg)
			continue
		}
		found, err := util.GatherAllMidiPaths(arg, 0)
		if err != nil {
			return nil, err
		}
		res = append(res, found...)
	}
	if maxNum > 0 && len(res) > maxNum {
		res = res[:maxNum]
	}
	return res, nil
}

func run(runner batch.Runner, paths []string) error {
	results := runner.ProcessPaths(paths)
	ok, skipped, failed := batch.Counts(results)
	logrus.Infof("Converted %d of %d files (%d skipped, %d failed)", ok, len(results), skipped, failed)
	if ok == 0 && failed > 0 {
		return errors.New("no files converted")
	}
	return nil
}

func modTimes(paths []string) map[string]time.Time {
	res := make(map[string]time.Time, len(paths))
	for _, p := range paths {
		if info, err := os.Stat(p); err == nil {
			res[p] = info.ModTime()
		}
	}
	return res
}

// watch polls paths every poll interval and calls reconvert with whatever
// changed. Changes that land within wait of each other are passed in one
// call. Changes still pending when ctx is done are flushed before returning.
func watch(ctx context.Context, paths []string, poll, wait time.Duration, reconvert func([]string)) {
	seen := modTimes(paths)

	var mu, running sync.Mutex
	pending := make(map[string]bool)
	flush := func() {
		running.Lock()
		defer running.Unlock()
		mu.Lock()
		changed := util.GetKeys(pending)
		pending = make(map[string]bool)
		mu.Unlock()
		if len(changed) > 0 {
			reconvert(changed)
		}
	}
	debounced := debounce.New(wait)

	logrus.Infof("Watching %d files", len(paths))
	ticker := time.NewTicker(poll)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			debounced(func() {})
			flush()
			return
		case <-ticker.C:
			for p, mod := range modTimes(paths) {
				if mod.Equal(seen[p]) {
					continue
				}
				seen[p] = mod
				logrus.WithField("file", p).Debug("changed")
				mu.Lock()
				pending[p] = true
				mu.Unlock()
				debounced(flush)
			}
		}
	}
}
