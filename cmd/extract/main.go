// Command extract runs the reminder extraction pipeline over a transcript
// file (or stdin) and prints the extracted reminders as JSON. It is the
// offline counterpart of the bot's /transcripts endpoint.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/voxnote/reminders-bot/internal/clock"
	"github.com/voxnote/reminders-bot/internal/extraction"
	"github.com/voxnote/reminders-bot/internal/segment"
)

func main() {
	maxReminders := flag.Int("max", 10, "maximum number of reminders to emit")
	minConfidence := flag.Float64("min-confidence", 0.5, "confidence threshold for extracted reminders")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	logrus.SetLevel(logrus.WarnLevel)
	if *debug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	text, err := readInput(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read input: %v\n", err)
		os.Exit(1)
	}

	segmenter, err := segment.NewPunktSegmenter()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize sentence segmenter: %v\n", err)
		os.Exit(1)
	}

	pipeline := extraction.NewPipeline(extraction.Config{
		MaxReminders:  *maxReminders,
		MinConfidence: *minConfidence,
	}, segmenter, clock.System())

	reminders := pipeline.ExtractReminders(string(text))

	out, err := json.MarshalIndent(reminders, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to encode reminders: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}

func readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}
