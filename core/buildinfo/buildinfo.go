// Package buildinfo carries version metadata injected at link time:
//
//	go build -ldflags "-X github.com/m3rciful/pagerbot/core/buildinfo.Version=v0.3.0 \
//	  -X github.com/m3rciful/pagerbot/core/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	  -X github.com/m3rciful/pagerbot/core/buildinfo.Date=$(date -u +%FT%TZ)"
package buildinfo

var (
	// Version is the release tag of the build.
	Version = "dev"
	// Commit is the source commit of the build.
	Commit = "local"
	// Date is the build timestamp in RFC3339 format.
	Date = ""
)
