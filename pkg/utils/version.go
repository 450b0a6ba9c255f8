package utils

// Build metadata injected via -ldflags at release time.
var (
	Version   = "dev"
	Sha       = "unknown"
	Buildtime = "unknown"
)
