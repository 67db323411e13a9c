// Package urlbuild is the SDK's one pure function: region -> base URL.
// It deliberately holds no state and performs no I/O.
package urlbuild

import (
	"strings"

	"github.com/ellucian-developer/integration-sdk-go/pkg/model"
)

// BaseURL returns the regional gateway host for region.
func BaseURL(region model.Region) string {
	switch region {
	case model.RegionCanada:
		return "https://integrate.elluciancloud.ca"
	case model.RegionEurope:
		return "https://integrate.elluciancloud.ie"
	case model.RegionAustralia:
		return "https://integrate.elluciancloud.com.au"
	default:
		return "https://integrate.elluciancloud.com"
	}
}

// Build joins the regional base URL with path, ensuring exactly one
// slash between them.
func Build(region model.Region, path string) string {
	base := strings.TrimSuffix(BaseURL(region), "/")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}
