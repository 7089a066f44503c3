package utils

import (
	"fmt"
	"strings"

	"github.com/SoerenFox/pytr-Modified/utils/log"
	"github.com/buger/jsonparser"
	"github.com/valyala/fasthttp"
)

// Build information, set via -ldflags at release time.
var (
	// Tag is the git tag this binary was built from.
	Tag = "dev"
	// GitHash is the commit hash this binary was built from.
	GitHash = ""
	// BuildStamp is the UTC build time.
	BuildStamp = ""
)

const latestReleaseURL = "https://api.github.com/repos/SoerenFox/pytr-Modified/releases/latest"

// CheckVersion compares the running version against the latest
// published release tag. Network failures only log a debug message.
func CheckVersion(current string) {
	code, body, err := fasthttp.Get(nil, latestReleaseURL)
	if err != nil {
		log.Debug("version check failed: %v", err)
		return
	}
	if code >= fasthttp.StatusMultipleChoices {
		log.Debug("version check failed: status code %v", code)
		return
	}
	latest, err := jsonparser.GetString(body, "tag_name")
	if err != nil {
		log.Debug("version check failed: %v", err)
		return
	}
	if NewerVersion(latest, current) {
		log.Warn("a newer pytr release is available: %s (installed: %s)", latest, current)
	}
}

// NewerVersion reports whether candidate is a strictly newer release
// tag than current. Tags are dotted integers with an optional leading v.
func NewerVersion(candidate, current string) bool {
	ca := versionParts(candidate)
	cu := versionParts(current)
	for i := 0; i < len(ca) || i < len(cu); i++ {
		a, b := 0, 0
		if i < len(ca) {
			a = ca[i]
		}
		if i < len(cu) {
			b = cu[i]
		}
		if a != b {
			return a > b
		}
	}
	return false
}

func versionParts(tag string) []int {
	tag = strings.TrimPrefix(strings.TrimSpace(tag), "v")
	fields := strings.Split(tag, ".")
	parts := make([]int, 0, len(fields))
	for _, f := range fields {
		n := 0
		if _, err := fmt.Sscanf(f, "%d", &n); err != nil {
			break
		}
		parts = append(parts, n)
	}
	return parts
}
