package version

// Name identifies the service in logs, traces, and audit entries.
const Name = "zimmetd"

// Version is overridden at build time via -ldflags.
var Version = "dev"
