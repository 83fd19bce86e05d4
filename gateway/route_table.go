package gateway

import (
	"strings"

	"golang.org/x/time/rate"
)

// mount is the compiled form of a RouteConfig: whitelist patterns turned
// into matchers, aliases turned into lookup maps keyed by (method, path)
// and (*, path), and an optional token-bucket limiter attached.
type mount struct {
	path        string
	whitelist   []whitelistMatcher
	aliases     map[aliasKey]string
	limiter     *rate.Limiter
	bodyParsers *BodyParsersConfig
}

type aliasKey struct {
	method string
	path   string
}

type whitelistMatcher struct {
	raw      string
	segments []string // nil when raw has no "*" segment
}

// routeTable is the compiled set of mounts for a Config, tried in
// declaration order on every request.
type routeTable struct {
	globalPath string
	mounts     []*mount
}

// newRouteTable compiles a Config's Routes into a routeTable. A nil Routes
// slice yields an empty table (API routing is skipped entirely; requests
// fall straight through to asset serving).
func newRouteTable(cfg Config) *routeTable {
	t := &routeTable{globalPath: normalizeSegment(cfg.Path)}
	for _, rc := range cfg.Routes {
		t.mounts = append(t.mounts, compileMount(rc))
	}
	return t
}

func compileMount(rc RouteConfig) *mount {
	m := &mount{path: normalizeSegment(rc.Path), bodyParsers: rc.BodyParsers}

	for _, pattern := range rc.Whitelist {
		m.whitelist = append(m.whitelist, compileWhitelistPattern(pattern))
	}

	if len(rc.Aliases) > 0 {
		m.aliases = make(map[aliasKey]string, len(rc.Aliases))
		for _, entry := range rc.Aliases {
			method, path := entry.Method()
			key := aliasKey{method: method, path: normalizeSegment(path)}
			// First declared wins: don't overwrite an existing entry.
			if _, exists := m.aliases[key]; !exists {
				m.aliases[key] = entry.Target
			}
		}
	}

	if rc.RateLimit != nil {
		m.limiter = rate.NewLimiter(rate.Limit(rc.RateLimit.RequestsPerSecond), rc.RateLimit.Burst)
	}

	return m
}

func compileWhitelistPattern(pattern string) whitelistMatcher {
	if !strings.Contains(pattern, "*") {
		return whitelistMatcher{raw: pattern}
	}
	return whitelistMatcher{raw: pattern, segments: strings.Split(pattern, ".")}
}

// matches reports whether action satisfies this whitelist pattern. "*" is a
// single dot-segment wildcard: "math.*" matches "math.add" but not
// "math.ops.add".
func (w whitelistMatcher) matches(action string) bool {
	if w.segments == nil {
		return w.raw == action
	}
	actionSegments := strings.Split(action, ".")
	if len(actionSegments) != len(w.segments) {
		return false
	}
	for i, seg := range w.segments {
		if seg != "*" && seg != actionSegments[i] {
			return false
		}
	}
	return true
}

// allowed reports whether action is permitted by this mount's whitelist. An
// empty whitelist allows everything.
func (m *mount) allowed(action string) bool {
	if len(m.whitelist) == 0 {
		return true
	}
	for _, w := range m.whitelist {
		if w.matches(action) {
			return true
		}
	}
	return false
}

// resolveAlias looks up relative under (method, relative) then (*, relative),
// returning the alias target and whether a match was found.
func (m *mount) resolveAlias(method, relative string) (string, bool) {
	if m.aliases == nil {
		return "", false
	}
	if target, ok := m.aliases[aliasKey{method: method, path: relative}]; ok {
		return target, true
	}
	if target, ok := m.aliases[aliasKey{method: "*", path: relative}]; ok {
		return target, true
	}
	return "", false
}

// matchMount returns the first mount whose path prefixes requestPath, along
// with the remainder of requestPath after the mount's own prefix, and
// whether any mount matched.
func (t *routeTable) matchMount(requestPath string) (*mount, string, bool) {
	stripped, ok := stripPrefix(requestPath, t.globalPath)
	if !ok {
		return nil, "", false
	}

	for _, m := range t.mounts {
		if relative, ok := stripPrefix(stripped, m.path); ok {
			return m, relative, true
		}
	}
	return nil, "", false
}

// stripPrefix removes a normalized path prefix from path, returning the
// remainder (itself normalized) and whether path actually started with it.
func stripPrefix(path, prefix string) (string, bool) {
	path = normalizeSegment(path)
	if prefix == "" {
		return path, true
	}
	if path == prefix {
		return "", true
	}
	if strings.HasPrefix(path, prefix+"/") {
		return path[len(prefix)+1:], true
	}
	return "", false
}

// normalizeSegment trims leading/trailing slashes so prefix comparisons
// don't depend on how a path was written in configuration.
func normalizeSegment(path string) string {
	return strings.Trim(path, "/")
}

// actionNameFromPath converts a relative request path into an implicit
// action name by replacing "/" with "." (so "/test/hello" -> "test.hello").
// A relative path that is already a dot-separated name passes through
// unchanged, since it contains no slashes to replace.
func actionNameFromPath(relative string) string {
	return strings.ReplaceAll(normalizeSegment(relative), "/", ".")
}
