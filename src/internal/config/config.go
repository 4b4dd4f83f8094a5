// Package config reads handler settings from the Lambda environment.
package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultQuotesURL is used when QUOTES_API_URL is unset.
const DefaultQuotesURL = "https://zenquotes.io/api/random"

// Logging holds settings shared by every handler.
type Logging struct {
	LogLevel  string
	LogFormat string
}

// Apod configures the getNasaImage handler. Values are not validated:
// an empty KeyPath or APIURL fails later, inside the invocation.
type Apod struct {
	Logging
	KeyPath string
	APIURL  string
}

// Quotes configures the getRandomQuote handler.
type Quotes struct {
	Logging
	APIURL  string
	Timeout time.Duration
}

// LoadDotEnv loads a .env file from the working directory if one exists.
// Variables already set in the environment win. Deployed functions have no
// .env file, so a missing file is not an error.
func LoadDotEnv(filenames ...string) error {
	err := godotenv.Load(filenames...)
	if err != nil && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// LoadLogging reads LOG_LEVEL and LOG_FORMAT.
func LoadLogging() Logging {
	return Logging{
		LogLevel:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat: strings.ToLower(getEnv("LOG_FORMAT", "json")),
	}
}

// LoadApod reads NASA_API_KEY_PATH and NASA_API_URL.
func LoadApod() *Apod {
	return &Apod{
		Logging: LoadLogging(),
		KeyPath: os.Getenv("NASA_API_KEY_PATH"),
		APIURL:  os.Getenv("NASA_API_URL"),
	}
}

// LoadQuotes reads QUOTES_API_URL and QUOTES_TIMEOUT.
func LoadQuotes() *Quotes {
	return &Quotes{
		Logging: LoadLogging(),
		APIURL:  getEnv("QUOTES_API_URL", DefaultQuotesURL),
		Timeout: getDuration("QUOTES_TIMEOUT", 5*time.Second),
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
