// Package buildinfo carries the version metadata stamped into release
// binaries. Each variable is overridden at build time:
//
//	go build -ldflags "\
//	  -X github.com/NishanthRao01/bankguard/pkg/buildinfo.Version=v1.0.0 \
//	  -X github.com/NishanthRao01/bankguard/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	  -X github.com/NishanthRao01/bankguard/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// Development builds keep the defaults below.
package buildinfo

import "fmt"

var (
	// Version is the semantic version, "dev" when unstamped.
	Version = "dev"

	// Commit is the git commit SHA the binary was built from.
	Commit = "none"

	// Date is the UTC build timestamp.
	Date = "unknown"
)

// Template renders the cobra version template with commit and build date on
// their own lines.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}
