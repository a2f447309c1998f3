package cmd

import (
	"fmt"
	"io"

	"github.com/jsphweid/buzzer/analyze"
	"github.com/jsphweid/buzzer/midi"
	"github.com/jsphweid/buzzer/model"
	"github.com/jsphweid/buzzer/tempo"
	"github.com/spf13/cobra"
)

var inspectLimit int

func init() {
	inspectCmd.Flags().IntVarP(&inspectLimit, "limit", "n", 50, "messages printed per track (0 = all)")
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.mid>",
	Short: "Prints the tracks and messages of a MIDI file",
	Long: `Prints a MIDI file level by level: the file, each track with its melody
score, and the messages of each track.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		song, err := midi.Load(args[0])
		if err != nil {
			return err
		}
		inspect(cmd.OutOrStdout(), args[0], song, inspectLimit)
		return nil
	},
}

func describe(msg model.RawMessage) string {
	switch msg.Kind {
	case model.NoteOnMsg, model.NoteOffMsg:
		return fmt.Sprintf("channel=%d note=%d (%s) velocity=%d", msg.Channel, msg.Note, midi.NoteName(msg.Note), msg.Velocity)
	case model.TempoMsg:
		return fmt.Sprintf("tempo=%d bpm=%d", msg.Tempo, tempo.BPM(msg.Tempo))
	case model.TrackNameMsg:
		return fmt.Sprintf("name=%q", msg.Name)
	}
	return ""
}

func inspect(w io.Writer, path string, song *model.Song, limit int) {
	var tempoTrack model.Track
	if len(song.Tracks) > 0 {
		tempoTrack = song.Tracks[0]
	}
	tm := tempo.BuildTempoMap(tempoTrack)

	fmt.Fprintf(w, "file: %v\n", path)
	fmt.Fprintf(w, "  ticks_per_beat: %d\n", song.TicksPerBeat)
	fmt.Fprintf(w, "  tracks: %d\n", len(song.Tracks))
	fmt.Fprintf(w, "  tempo_changes: %d (initial %d bpm)\n", len(tm), tempo.BPM(tm[0].MicrosPerBeat))
	fmt.Fprintf(w, "  length_ms: %.0f\n", tempo.LengthMs(song, tm))

	for _, a := range analyze.AnalyzeAll(song.Tracks) {
		track := song.Tracks[a.Index]
		fmt.Fprintf(w, "\ntrack %d: %q\n", a.Index, a.Name)
		fmt.Fprintf(w, "  messages: %d\n", len(track))
		fmt.Fprintf(w, "  notes: %d  pitch: %d-%d avg %.1f  mono: %.2f  drums: %v\n",
			a.NoteOnCount, a.MinPitch, a.MaxPitch, a.AvgPitch, a.MonoRatio, a.IsDrumTrack)
		if a.Score <= analyze.Disqualified {
			fmt.Fprintf(w, "  score: disqualified\n")
		} else {
			fmt.Fprintf(w, "  score: %.3f\n", a.Score)
		}

		var abs int64
		for i, msg := range track {
			if limit > 0 && i >= limit {
				fmt.Fprintf(w, "  ... (%d more messages)\n", len(track)-limit)
				break
			}
			abs += int64(msg.Delta)
			fmt.Fprintf(w, "  [%d] tick=%d %v %v\n", i, abs, msg.Kind, describe(msg))
		}
	}
}
