package gateway

import (
	"errors"

	apigwerrors "github.com/sembus/apigw/errors"
)

// ErrNoMountMatch signals that no mount matched the request path at all;
// the caller should fall through to asset serving rather than treat this
// as a resolution failure.
var ErrNoMountMatch = errors.New("no mount matched request path")

// resolver implements the deterministic resolution steps of §4.6: mount
// selection, rate limiting, alias lookup, whitelist enforcement, and
// parameter merging. It holds no per-request state of its own.
type resolver struct {
	table *routeTable
}

func newResolver(table *routeTable) *resolver {
	return &resolver{table: table}
}

// Resolve picks a mount for rc.RawPath/rc.Method, computes the action name,
// enforces the mount's rate limit and whitelist, and merges parameters. On
// success it sets rc.ResolvedAction and rc.MergedParams. ErrNoMountMatch
// means "try the asset server next"; any other error is a final HTTPError.
func (res *resolver) Resolve(rc *RequestContext) error {
	m, relative, ok := res.table.matchMount(rc.RawPath)
	if !ok {
		return ErrNoMountMatch
	}

	if m.limiter != nil && !m.limiter.Allow() {
		return apigwerrors.NewHTTPError(429, "RateLimited", "too many requests", nil)
	}

	action, aliased := m.resolveAlias(rc.Method, relative)
	if !aliased {
		action = actionNameFromPath(relative)
	}

	if !m.allowed(action) {
		return apigwerrors.ServiceNotFound(action)
	}

	rc.ResolvedAction = action
	rc.bodyParsers = m.bodyParsers
	rc.MergedParams = mergeParams(rc.Query, rc.ParsedBody)
	return nil
}
