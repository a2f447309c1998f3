package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "buzzer",
	Short: "Turns MIDI files into single voice buzzer timelines",
	Long: `Turns MIDI files into monophonic note/rest timelines for a device that
can sound one pitch at a time. Output is integer-only JSON.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logrus.SetLevel(logrus.DebugLevel)
		}
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
