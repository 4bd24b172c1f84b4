package utils

import "log/slog"

// Logger receives progress messages from the Run* helpers.
var Logger = slog.Default()
