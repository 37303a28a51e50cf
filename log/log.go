package log

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

var (
	logMu    sync.Mutex
	statusLg zerolog.Logger
	logReady bool
)

// Init routes all status output to stderr. Stdout stays reserved for
// transcript text so the daemon can be piped. Verbose enables debug events.
func Init(verbose bool) {
	initWriter(os.Stderr, verbose)
}

func initWriter(out io.Writer, verbose bool) {
	logMu.Lock()
	defer logMu.Unlock()

	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	noColor := true
	if f, ok := out.(*os.File); ok {
		noColor = !term.IsTerminal(int(f.Fd()))
	}

	consoleWriter := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: "15:04:05",
		NoColor:    noColor,
	}
	statusLg = zerolog.New(consoleWriter).Level(level).With().Timestamp().Logger()

	logReady = true
}

func Info(msg string) {
	if logReady {
		statusLg.Info().Msg(msg)
	}
}

func Infof(format string, args ...any) {
	if logReady {
		statusLg.Info().Msg(fmt.Sprintf(format, args...))
	}
}

func Warn(msg string) {
	if logReady {
		statusLg.Warn().Msg(msg)
	}
}

func Warnf(format string, args ...any) {
	if logReady {
		statusLg.Warn().Msg(fmt.Sprintf(format, args...))
	}
}

func Error(msg string) {
	if logReady {
		statusLg.Error().Msg(msg)
	}
}

func Errorf(format string, args ...any) {
	if logReady {
		statusLg.Error().Msg(fmt.Sprintf(format, args...))
	}
}

func Debugf(format string, args ...any) {
	if logReady {
		statusLg.Debug().Msg(fmt.Sprintf(format, args...))
	}
}

// State reports a control loop transition.
func State(name string) {
	if logReady {
		statusLg.Info().Str("state", name).Msg("state")
	}
}

func SessionStart(seq uint64, device string) {
	if logReady {
		statusLg.Info().
			Uint64("session", seq).
			Str("device", device).
			Msg("recording_started")
	}
}

// Stats summarizes one completed capture-to-delivery cycle.
type Stats struct {
	AudioS       float64
	TranscribeMs float64
	TotalMs      float64
	Engine       string
}

func SessionEnd(seq uint64, s Stats) {
	if logReady {
		statusLg.Info().
			Uint64("session", seq).
			Float64("audio_s", s.AudioS).
			Float64("transcribe_ms", s.TranscribeMs).
			Float64("total_ms", s.TotalMs).
			Str("engine", s.Engine).
			Msg("session_end")
	}
}

func Transcript(text string) {
	if logReady {
		statusLg.Info().Str("text", text).Msg("transcript")
	}
}
