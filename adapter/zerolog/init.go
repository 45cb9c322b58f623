package zerologadapter

import (
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/trickstertwo/logroute"
)

// Env:
//
//	LOGROUTE_LEVEL               : trace|debug|info|warn|error|fatal|none (fatal maps to error)
//	LOGROUTE_CONSOLE=1           : enable ConsoleWriter (pretty output)
//	LOGROUTE_CALLER=1            : include caller
//	LOGROUTE_CALLER_SKIP=<int>   : frames to skip (default 5)
//	LOGROUTE_CONSOLE_TIMEFORMAT  : optional console time layout (default RFC3339Nano)
func init() {
	logroute.RegisterDefaultAdapterFactory(func(w io.Writer) logroute.Adapter {
		cfg := ConfigFromEnv(os.Getenv)
		cfg.Writer = w
		return NewAdapter(cfg)
	})
}

// ConfigFromEnv reads the LOGROUTE_* variables through getenv. Unknown or
// empty levels fall back to info.
func ConfigFromEnv(getenv func(string) string) Config {
	level, err := logroute.ParseLevel(getenv("LOGROUTE_LEVEL"))
	if err != nil {
		level = logroute.LevelInfo
	}
	return Config{
		MinLevel:          level,
		Console:           getenv("LOGROUTE_CONSOLE") == "1",
		ConsoleTimeFormat: strings.TrimSpace(getenv("LOGROUTE_CONSOLE_TIMEFORMAT")),
		Caller:            getenv("LOGROUTE_CALLER") == "1",
		CallerSkip:        parseInt(getenv("LOGROUTE_CALLER_SKIP"), 5),
	}
}

func parseInt(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}
