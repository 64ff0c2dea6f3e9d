package version

// Build information set by ldflags
var (
	Version = "dev"     // -X github.com/arthur-debert/scaff/internal/version.Version={{.Version}}
	Commit  = "unknown" // -X github.com/arthur-debert/scaff/internal/version.Commit={{.Commit}}
	Date    = "unknown" // -X github.com/arthur-debert/scaff/internal/version.Date={{.Date}}
)

// Info returns the multi-line version banner printed by `scaff version`
func Info() string {
	return "scaff version " + Version + "\nCommit: " + Commit + "\nBuilt:  " + Date + "\n"
}
