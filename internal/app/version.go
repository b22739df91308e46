package app

// Build-time variables set via -ldflags and logged at startup. For example:
//
//	go build -ldflags "-X github.com/large-farva/satviz/internal/app.Version=v0.3.0" ./cmd/satvizd
var (
	Version   = "dev"
	GoVersion = "unknown"
	BuiltAt   = "unknown"
)
