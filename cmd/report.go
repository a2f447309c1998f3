package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hako/durafmt"
	"github.com/jsphweid/buzzer/constants"
	"github.com/jsphweid/buzzer/model"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report [dir]",
	Short: "Summarizes the .buzzer.json files in a directory",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := constants.GetOutDir()
		if len(args) == 1 {
			dir = args[0]
		}
		if dir == "" {
			dir = constants.GetMediaDir()
		}
		_, err := report(cmd.OutOrStdout(), dir)
		return err
	},
}

type buzzerReport struct {
	numFiles   int
	numNotes   int
	numEvents  int
	numBytes   int64
	durationMs int64
}

func report(w io.Writer, dir string) (buzzerReport, error) {
	var r buzzerReport

	files, err := os.ReadDir(dir)
	if err != nil {
		return r, errors.Wrap(err, "reading report directory")
	}
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), constants.OutputSuffix) {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, f.Name()))
		if err != nil {
			return r, errors.Wrapf(err, "reading %v", f.Name())
		}
		var out model.Output
		if err := json.Unmarshal(data, &out); err != nil {
			fmt.Fprintf(w, "%v: unreadable (%v)\n", f.Name(), err)
			continue
		}

		r.numFiles++
		r.numNotes += out.NumNotes()
		r.numEvents += len(out.Events)
		r.numBytes += int64(len(data))
		r.durationMs += int64(out.DurationMs())
		fmt.Fprintf(w, "%v: %d notes, %d events, %v, track=%v\n", f.Name(), out.NumNotes(), len(out.Events),
			durafmt.Parse(time.Duration(out.DurationMs())*time.Millisecond).LimitFirstN(2), out.SelectedTrackName)
	}

	fmt.Fprintf(w, "files: %d\n", r.numFiles)
	fmt.Fprintf(w, "notes: %d\n", r.numNotes)
	fmt.Fprintf(w, "events: %d\n", r.numEvents)
	fmt.Fprintf(w, "total length: %v\n", durafmt.Parse(time.Duration(r.durationMs)*time.Millisecond).LimitFirstN(2))
	fmt.Fprintf(w, "total size: %v\n", humanize.Bytes(uint64(r.numBytes)))
	return r, nil
}
