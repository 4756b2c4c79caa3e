package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
)

func SetupGlobalLogger(level string) error {
	if err := TrySetupGlobalLevel(level); err != nil {
		return err
	}
	log.Logger = NewLogger("global")
	return nil
}

func TrySetupGlobalLevel(level string) error {
	l, err := zerolog.ParseLevel(level)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(l)
	return nil
}

// NoColor reports whether terminal colouring should be off for stdout.
func NoColor() bool {
	return os.Getenv("NO_COLOR") != "" || !term.IsTerminal(int(os.Stdout.Fd()))
}

func makeBold(str any, disabled bool) string {
	const colorBold = 1

	if disabled {
		return fmt.Sprintf("%s", str)
	}
	return fmt.Sprintf("\x1b[%dm%v\x1b[0m", colorBold, str)
}

// makeComponentPreparer renders only the component part as "[name]";
// other fields keep the default formatting.
func makeComponentPreparer(noColor bool) func(map[string]any) error {
	return func(evt map[string]any) error {
		if c, ok := evt[FieldComponent]; ok {
			evt[FieldComponent] = makeBold(fmt.Sprintf("[%s]\t", c), noColor)
		}
		return nil
	}
}

func NewLogger(component string) zerolog.Logger {
	return NewLoggerTo(os.Stderr, component, NoColor())
}

func NewLoggerTo(out io.Writer, component string, noColor bool) zerolog.Logger {
	color.NoColor = noColor
	return zerolog.New(zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.DateTime,
		PartsOrder: []string{
			zerolog.TimestampFieldName,
			zerolog.LevelFieldName,
			FieldComponent,
			zerolog.MessageFieldName,
		},
		FieldsExclude: []string{FieldComponent},
		FormatPrepare: makeComponentPreparer(noColor),
		NoColor:       noColor,
	}).
		With().
		Str(FieldComponent, component).
		Timestamp().
		Logger()
}

// Success starts an info-level event on the success channel.
// The message is prefixed with a green tick.
func Success(l *zerolog.Logger) *SuccessEvent {
	return &SuccessEvent{e: l.Info().Str(FieldStatus, "success")}
}

type SuccessEvent struct {
	e *zerolog.Event
}

func (s *SuccessEvent) Str(key, val string) *SuccessEvent {
	s.e = s.e.Str(key, val)
	return s
}

func (s *SuccessEvent) Int(key string, val int) *SuccessEvent {
	s.e = s.e.Int(key, val)
	return s
}

func (s *SuccessEvent) Msg(msg string) {
	s.e.Msg(color.GreenString("✔ ") + msg)
}

func (s *SuccessEvent) Msgf(format string, v ...any) {
	s.Msg(fmt.Sprintf(format, v...))
}
