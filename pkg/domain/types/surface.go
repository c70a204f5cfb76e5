package types

import "github.com/m-mizutani/goerr/v2"

// Surface selects the assistant persona and capability set for a chat
// request. It is a closed set: anything other than the two known values is
// rejected at the boundary rather than defaulted.
type Surface string

const (
	// SurfacePublic is the anonymous marketing-site surface. No
	// authentication, no tools, recommendations allowed.
	SurfacePublic Surface = "public"

	// SurfaceInternal is the staff dashboard surface. Requires a valid
	// bearer token and enables the data-lookup tools.
	SurfaceInternal Surface = "internal"
)

// ParseSurface validates a wire-level surface value. The empty string maps
// to the public surface so existing anonymous clients keep working.
func ParseSurface(s string) (Surface, error) {
	switch Surface(s) {
	case "":
		return SurfacePublic, nil
	case SurfacePublic:
		return SurfacePublic, nil
	case SurfaceInternal:
		return SurfaceInternal, nil
	default:
		return "", goerr.New("unknown surface", goerr.V("surface", s))
	}
}

// RequiresAuth reports whether requests on this surface must present a
// valid bearer token.
func (s Surface) RequiresAuth() bool {
	return s == SurfaceInternal
}

// AllowsRecommendation reports whether the deterministic course carousel
// may be produced for this surface.
func (s Surface) AllowsRecommendation() bool {
	return s == SurfacePublic
}

func (s Surface) String() string {
	return string(s)
}
