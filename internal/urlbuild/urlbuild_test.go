package urlbuild_test

import (
	"testing"

	"github.com/ellucian-developer/integration-sdk-go/internal/urlbuild"
	"github.com/ellucian-developer/integration-sdk-go/pkg/model"
)

func TestBaseURL(t *testing.T) {
	cases := []struct {
		region model.Region
		want   string
	}{
		{model.RegionUS, "https://integrate.elluciancloud.com"},
		{model.RegionCanada, "https://integrate.elluciancloud.ca"},
		{model.RegionEurope, "https://integrate.elluciancloud.ie"},
		{model.RegionAustralia, "https://integrate.elluciancloud.com.au"},
	}
	for _, c := range cases {
		if got := urlbuild.BaseURL(c.region); got != c.want {
			t.Errorf("BaseURL(%v) = %q, want %q", c.region, got, c.want)
		}
	}
}

func TestBuild(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{"/auth", "https://integrate.elluciancloud.com/auth"},
		{"auth", "https://integrate.elluciancloud.com/auth"},
		{"", "https://integrate.elluciancloud.com/"},
	}
	for _, c := range cases {
		if got := urlbuild.Build(model.RegionUS, c.path); got != c.want {
			t.Errorf("Build(US, %q) = %q, want %q", c.path, got, c.want)
		}
	}
}
