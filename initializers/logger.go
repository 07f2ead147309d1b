package initializers

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

var Log zerolog.Logger

func init() {
	zerolog.TimeFieldFormat = time.RFC3339
	Log = zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("GIN_MODE") != "release" {
		Log = Log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	}
}
