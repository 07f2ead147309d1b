package initializers

import (
	"os"

	"github.com/joho/godotenv"
)

func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			Log.Warn().Err(err).Msg("could not load .env file")
		}
	}
}
