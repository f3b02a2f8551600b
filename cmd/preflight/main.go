// cmd/preflight/main.go
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hamed0406/geocheck/internal/config"
	"github.com/hamed0406/geocheck/internal/location"
)

func main() {
	if !preflight(os.Stdout, os.Stderr) {
		os.Exit(1)
	}
}

// preflight checks the environment the API would start with and reports
// on each setting. It returns false on any blocking problem.
func preflight(stdout, stderr io.Writer) bool {
	fail := func(msg string) { fmt.Fprintln(stderr, "✖", msg) }
	warn := func(msg string) { fmt.Fprintln(stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Fprintln(stdout, "✔", msg) }

	cfg, err := config.FromEnv()
	if err != nil {
		fail(err.Error())
		return false
	}
	ok("API_ADDR=" + cfg.Addr)
	ok(fmt.Sprintf("CHECK_DELAY_MS=%d", cfg.CheckDelayMS))

	if cfg.LocationsFile == "" {
		ok("LOCATIONS_FILE empty; using the built-in location table")
	} else {
		dir, err := location.LoadFile(cfg.LocationsFile)
		if err != nil {
			fail("LOCATIONS_FILE: " + err.Error())
			return false
		}
		ok(fmt.Sprintf("LOCATIONS_FILE loaded %d countries", dir.Len()))
	}

	if len(cfg.AllowedOrigins) == 0 {
		warn("ALLOWED_ORIGINS empty; any origin may call the API and open the stream.")
	} else {
		ok("ALLOWED_ORIGINS=" + strings.Join(cfg.AllowedOrigins, ","))
	}

	if cfg.PublicRPM == 0 {
		warn("PUBLIC_RPM=0 disables rate limiting.")
	}

	if cfg.RandomSeed != 0 {
		warn("RANDOM_SEED set; check outcomes will repeat across restarts.")
	}

	channels := 0
	if cfg.SlackWebhookURL != "" {
		channels++
		ok("Slack alerts enabled")
	}
	if cfg.ResendAPIKey != "" {
		channels++
		ok("email alerts enabled for " + strings.Join(cfg.AlertEmailTo, ","))
	}
	if channels == 0 {
		warn("no alert channel configured; alerts go to the log only.")
	}

	ok("preflight passed")
	return true
}
