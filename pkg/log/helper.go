package log

import (
	stdlog "log"

	"github.com/cycloud0203/cvsd/pkg/appdir"
)

// MustInit opens the log database name inside the app dir and exits on
// failure.
func MustInit(name string, debug bool) {
	path, err := appdir.Path(name)
	if err != nil {
		stdlog.Fatalf("FATAL: Failed to resolve log database path: %v\n", err)
	}
	if err := Init(path, debug); err != nil {
		stdlog.Fatalf("FATAL: Failed to initialize logger: %v\n", err)
	}
}
