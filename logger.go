package ssecore

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log is the package-level logger, its level taken from the LOG
// environment variable. None of the random, key, prf, cipher or tdp
// subpackages write to it: errors are reported to the caller, not
// logged.
var Log = logrus.New()

func init() {
	levels := map[string]logrus.Level{}
	for _, l := range logrus.AllLevels {
		levels[l.String()] = l
	}

	if x, exists := os.LookupEnv("LOG"); exists {
		if level, exists := levels[strings.ToLower(x)]; exists {
			Log.SetLevel(level)
		}
	}
}
