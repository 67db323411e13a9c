package version

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/ellucian-developer/integration-sdk-go/pkg/contracts"
	"github.com/ellucian-developer/integration-sdk-go/pkg/ethoserr"
	"github.com/ellucian-developer/integration-sdk-go/pkg/model"
	"golang.org/x/sync/singleflight"
)

const defaultMediaType = "application/json"

// Resolver answers catalog queries against a contracts.CatalogFetcher:
// which versions a resource supports, what the latest one is, and what
// media-type header a requested version shape resolves to.
type Resolver struct {
	fetcher contracts.CatalogFetcher
	group   singleflight.Group
}

// New builds a Resolver backed by fetcher.
func New(fetcher contracts.CatalogFetcher) *Resolver {
	return &Resolver{fetcher: fetcher}
}

// GetAllAvailableResources fetches the catalog document verbatim.
// Concurrent callers coalesce onto a single in-flight fetch.
func (r *Resolver) GetAllAvailableResources(ctx context.Context) (model.Catalog, error) {
	v, err, _ := r.group.Do("catalog", func() (interface{}, error) {
		return r.fetcher.FetchCatalog(ctx)
	})
	if err != nil {
		return model.Catalog{}, err
	}
	return v.(model.Catalog), nil
}

// GetResourceDetails filters the catalog down to the applications that
// own resourceName, projecting {appID, appName, resource}. Fails with
// ResourceNotFound if no application owns it.
func (r *Resolver) GetResourceDetails(ctx context.Context, resourceName string) ([]model.ResourceDetails, error) {
	catalog, err := r.GetAllAvailableResources(ctx)
	if err != nil {
		return nil, err
	}

	var details []model.ResourceDetails
	for _, app := range catalog.Applications {
		for _, res := range app.Resources {
			if res.Name == resourceName {
				details = append(details, model.ResourceDetails{
					AppID:    app.ID,
					AppName:  app.Name,
					Resource: res.Name,
				})
			}
		}
	}
	if len(details) == 0 {
		return nil, ethoserr.NotFound(resourceName)
	}
	return details, nil
}

// GetVersionsOfResource returns, per owning application ID, the raw
// version strings of resourceName's representations.
func (r *Resolver) GetVersionsOfResource(ctx context.Context, resourceName string) (map[string][]string, error) {
	return r.perApplication(ctx, resourceName, func(rep model.Representation) string {
		return rep.Version
	})
}

// GetVersionsOfResourceAsStrings dedups GetVersionsOfResource across
// every owning application.
func (r *Resolver) GetVersionsOfResourceAsStrings(ctx context.Context, resourceName string) ([]string, error) {
	byApp, err := r.GetVersionsOfResource(ctx, resourceName)
	if err != nil {
		return nil, err
	}
	return dedupValues(byApp), nil
}

// GetVersionHeadersOfResource returns, per owning application ID, the
// media-type header values of resourceName's representations.
func (r *Resolver) GetVersionHeadersOfResource(ctx context.Context, resourceName string) (map[string][]string, error) {
	return r.perApplication(ctx, resourceName, func(rep model.Representation) string {
		return rep.MediaType
	})
}

// GetVersionHeadersOfResourceAsStrings dedups GetVersionHeadersOfResource
// across every owning application.
func (r *Resolver) GetVersionHeadersOfResourceAsStrings(ctx context.Context, resourceName string) ([]string, error) {
	byApp, err := r.GetVersionHeadersOfResource(ctx, resourceName)
	if err != nil {
		return nil, err
	}
	return dedupValues(byApp), nil
}

func (r *Resolver) perApplication(ctx context.Context, resourceName string, extract func(model.Representation) string) (map[string][]string, error) {
	catalog, err := r.GetAllAvailableResources(ctx)
	if err != nil {
		return nil, err
	}

	out := make(map[string][]string)
	found := false
	for _, app := range catalog.Applications {
		for _, res := range app.Resources {
			if res.Name != resourceName {
				continue
			}
			found = true
			for _, rep := range res.Representations {
				out[app.ID] = append(out[app.ID], extract(rep))
			}
		}
	}
	if !found {
		return nil, ethoserr.NotFound(resourceName)
	}
	return out, nil
}

func dedupValues(byApp map[string][]string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, vs := range byApp {
		for _, v := range vs {
			if !seen[v] {
				seen[v] = true
				out = append(out, v)
			}
		}
	}
	return out
}

// GetMajorVersionsOfResource strips minor/patch components from every
// version of resourceName, dedups, and formats each as
// "application/vnd.hedtech.integration.v<major>+json".
func (r *Resolver) GetMajorVersionsOfResource(ctx context.Context, resourceName string) ([]string, error) {
	raw, err := r.GetVersionsOfResourceAsStrings(ctx, resourceName)
	if err != nil {
		return nil, err
	}

	seen := make(map[int]bool)
	var out []string
	for _, v := range raw {
		pv, ok := parseVersion(v)
		if !ok {
			continue
		}
		if !seen[pv.semver.Major] {
			seen[pv.semver.Major] = true
			out = append(out, majorMediaType(pv.semver.Major))
		}
	}
	return out, nil
}

func majorMediaType(major int) string {
	return fmt.Sprintf("application/vnd.hedtech.integration.v%d+json", major)
}

// parsedVersion tracks both the numeric triple and how many dot-separated
// components the original string actually had, since support matching is
// exact on the requested shape.
type parsedVersion struct {
	semver     SemVer
	components int // 0 = bare integer ("v12"), 1 = major.minor, 2 = major.minor.patch
}

func parseVersion(raw string) (parsedVersion, bool) {
	s := strings.TrimPrefix(strings.TrimSpace(raw), "v")
	if s == "" {
		return parsedVersion{}, false
	}
	parts := strings.Split(s, ".")
	if len(parts) > 3 {
		return parsedVersion{}, false
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return parsedVersion{}, false
		}
		nums[i] = n
	}
	return parsedVersion{
		semver:     SemVer{Major: nums[0], Minor: nums[1], Patch: nums[2]},
		components: len(parts) - 1,
	}, true
}

// IsResourceVersionSupportedMajor reports whether resourceName has a
// representation expressed as a bare major integer (e.g. "v12") equal
// to major. A dotted version never satisfies this shape.
func (r *Resolver) IsResourceVersionSupportedMajor(ctx context.Context, resourceName string, major int) (bool, error) {
	return r.isSupported(ctx, resourceName, 0, SemVer{Major: major})
}

// IsResourceVersionSupportedMajorMinor reports whether resourceName has
// a representation expressed as exactly "major.minor".
func (r *Resolver) IsResourceVersionSupportedMajorMinor(ctx context.Context, resourceName string, major, minor int) (bool, error) {
	return r.isSupported(ctx, resourceName, 1, SemVer{Major: major, Minor: minor})
}

// IsResourceVersionSupportedMajorMinorPatch reports whether resourceName
// has a representation expressed as exactly "major.minor.patch".
func (r *Resolver) IsResourceVersionSupportedMajorMinorPatch(ctx context.Context, resourceName string, major, minor, patch int) (bool, error) {
	return r.isSupported(ctx, resourceName, 2, SemVer{Major: major, Minor: minor, Patch: patch})
}

// IsResourceVersionSupportedExact reports whether resourceName has a
// representation whose full semantic version equals v exactly (the
// same three-component shape as major.minor.patch).
func (r *Resolver) IsResourceVersionSupportedExact(ctx context.Context, resourceName string, v SemVer) (bool, error) {
	return r.isSupported(ctx, resourceName, 2, v)
}

func (r *Resolver) isSupported(ctx context.Context, resourceName string, shapeComponents int, want SemVer) (bool, error) {
	raw, err := r.GetVersionsOfResourceAsStrings(ctx, resourceName)
	if err != nil {
		return false, err
	}
	for _, v := range raw {
		pv, ok := parseVersion(v)
		if !ok {
			continue
		}
		if pv.components == shapeComponents && pv.semver.Equal(want) {
			return true, nil
		}
	}
	return false, nil
}

// GetVersionHeader returns the media-type header for the representation
// matching the requested shape, or an UnsupportedVersion error naming
// resourceName and the requested version.
func (r *Resolver) GetVersionHeader(ctx context.Context, resourceName string, shapeComponents int, want SemVer) (string, error) {
	catalog, err := r.GetAllAvailableResources(ctx)
	if err != nil {
		return "", err
	}

	for _, app := range catalog.Applications {
		for _, res := range app.Resources {
			if res.Name != resourceName {
				continue
			}
			for _, rep := range res.Representations {
				pv, ok := parseVersion(rep.Version)
				if !ok {
					continue
				}
				if pv.components == shapeComponents && pv.semver.Equal(want) {
					return rep.MediaType, nil
				}
			}
		}
	}
	return "", ethoserr.Unsupported(resourceName, formatShape(shapeComponents, want))
}

func formatShape(shapeComponents int, v SemVer) string {
	switch shapeComponents {
	case 0:
		return strconv.Itoa(v.Major)
	case 1:
		return fmt.Sprintf("%d.%d", v.Major, v.Minor)
	default:
		return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	}
}

// GetLatestVersion splits resourceName's deduplicated version list into
// semantic (dotted) and non-semantic (bare integer) subsets, sorts each
// descending, and picks the bare version string per spec.md's rule: the
// semantic top wins when its major is >= the non-semantic top;
// otherwise the non-semantic top wins. application/json is returned
// when the resource has no versioned representations at all.
func (r *Resolver) GetLatestVersion(ctx context.Context, resourceName string) (string, error) {
	components, sv, found, err := r.latestVersion(ctx, resourceName)
	if err != nil {
		return "", err
	}
	if !found {
		return defaultMediaType, nil
	}
	return formatShape(components, sv), nil
}

// GetLatestVersionHeader is GetLatestVersion's counterpart for callers
// that need the full Accept/media-type header for the latest
// representation (e.g. to declare a pkg/notify version override)
// rather than the bare version string spec.md documents GetLatestVersion
// as returning.
func (r *Resolver) GetLatestVersionHeader(ctx context.Context, resourceName string) (string, error) {
	components, sv, found, err := r.latestVersion(ctx, resourceName)
	if err != nil {
		return "", err
	}
	if !found {
		return defaultMediaType, nil
	}
	return r.GetVersionHeader(ctx, resourceName, components, sv)
}

func (r *Resolver) latestVersion(ctx context.Context, resourceName string) (components int, sv SemVer, found bool, err error) {
	raw, err := r.GetVersionsOfResourceAsStrings(ctx, resourceName)
	if err != nil {
		return 0, SemVer{}, false, err
	}

	var semantic, nonSemantic []parsedVersion
	for _, v := range raw {
		if v == "" {
			continue
		}
		pv, ok := parseVersion(v)
		if !ok {
			continue
		}
		if IsSemantic(v) {
			semantic = append(semantic, pv)
		} else {
			nonSemantic = append(nonSemantic, pv)
		}
	}

	sort.Slice(semantic, func(i, j int) bool { return semantic[i].semver.Compare(semantic[j].semver) > 0 })
	sort.Slice(nonSemantic, func(i, j int) bool { return nonSemantic[i].semver.Major > nonSemantic[j].semver.Major })

	switch {
	case len(semantic) == 0 && len(nonSemantic) == 0:
		return 0, SemVer{}, false, nil
	case len(nonSemantic) == 0:
		return semantic[0].components, semantic[0].semver, true, nil
	case len(semantic) == 0:
		return nonSemantic[0].components, nonSemantic[0].semver, true, nil
	case semantic[0].semver.Major >= nonSemantic[0].semver.Major:
		return semantic[0].components, semantic[0].semver, true, nil
	default:
		return nonSemantic[0].components, nonSemantic[0].semver, true, nil
	}
}

// GetFiltersAndNamedQueries locates the representation matching
// versionHeader (or the latest, when versionHeader is empty) and
// returns it as a Representation: version, media-type header, filters
// and named queries. The result does not carry the resource name.
func (r *Resolver) GetFiltersAndNamedQueries(ctx context.Context, resourceName, versionHeader string) (model.Representation, error) {
	catalog, err := r.GetAllAvailableResources(ctx)
	if err != nil {
		return model.Representation{}, err
	}

	if versionHeader == "" {
		versionHeader, err = r.GetLatestVersionHeader(ctx, resourceName)
		if err != nil {
			return model.Representation{}, err
		}
	}

	for _, app := range catalog.Applications {
		for _, res := range app.Resources {
			if res.Name != resourceName {
				continue
			}
			for _, rep := range res.Representations {
				if rep.MediaType == versionHeader {
					return model.Representation{
						Version:      rep.Version,
						MediaType:    rep.MediaType,
						Filters:      rep.Filters,
						NamedQueries: rep.NamedQueries,
					}, nil
				}
			}
		}
	}
	return model.Representation{}, ethoserr.Unsupported(resourceName, versionHeader)
}

// GetFilters projects the filter list from GetFiltersAndNamedQueries.
func (r *Resolver) GetFilters(ctx context.Context, resourceName, versionHeader string) ([]string, error) {
	rep, err := r.GetFiltersAndNamedQueries(ctx, resourceName, versionHeader)
	if err != nil {
		return nil, err
	}
	return rep.Filters, nil
}

// GetNamedQueries projects the named-query mapping from
// GetFiltersAndNamedQueries.
func (r *Resolver) GetNamedQueries(ctx context.Context, resourceName, versionHeader string) (map[string][]string, error) {
	rep, err := r.GetFiltersAndNamedQueries(ctx, resourceName, versionHeader)
	if err != nil {
		return nil, err
	}
	return rep.NamedQueries, nil
}

// GetAvailableResourcesForApp intersects the full catalog with
// appConfig.ownerOverrides, returning only the resources the tenant's
// application owns.
func (r *Resolver) GetAvailableResourcesForApp(ctx context.Context, appConfig model.AppConfig) (model.Catalog, error) {
	catalog, err := r.GetAllAvailableResources(ctx)
	if err != nil {
		return model.Catalog{}, err
	}

	owned := make(map[string]bool, len(appConfig.OwnerOverrides))
	for _, o := range appConfig.OwnerOverrides {
		owned[o.ApplicationID+"|"+o.ResourceName] = true
	}

	var filtered model.Catalog
	for _, app := range catalog.Applications {
		var resources []model.Resource
		for _, res := range app.Resources {
			if owned[app.ID+"|"+res.Name] {
				resources = append(resources, res)
			}
		}
		if len(resources) > 0 {
			filtered.Applications = append(filtered.Applications, model.Application{
				ID:        app.ID,
				Name:      app.Name,
				Resources: resources,
			})
		}
	}
	return filtered, nil
}
