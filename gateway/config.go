package gateway

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sembus/apigw/errors"
)

// Config is the gateway's top-level, immutable-after-start configuration.
type Config struct {
	// Path is an optional global prefix applied before any mount's own path.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`

	// Routes are tried in declaration order; the first mount whose path
	// prefixes the request wins. A nil (as opposed to empty) Routes means no
	// API routes are mounted at all — only asset serving, if configured.
	Routes []RouteConfig `json:"routes" yaml:"routes"`

	// Assets configures the static-file fallback. Nil disables it.
	Assets *AssetsConfig `json:"assets,omitempty" yaml:"assets,omitempty"`

	// HTTPS, when non-nil, flips the listening socket to TLS.
	HTTPS *HTTPSConfig `json:"https,omitempty" yaml:"https,omitempty"`

	Port int    `json:"port" yaml:"port"`
	IP   string `json:"ip,omitempty" yaml:"ip,omitempty"`

	// RequestTimeoutStr is a duration string (e.g. "10s"); zero/absent means
	// no per-request deadline is enforced beyond the broker's own timeout.
	RequestTimeoutStr string `json:"requestTimeout,omitempty" yaml:"requestTimeout,omitempty"`

	Broker BrokerConfig `json:"broker" yaml:"broker"`

	// LogLevel is one of "debug", "info", "warn", "error". It is decoded but
	// not read by the gateway; log output follows the *slog.Logger given to New.
	LogLevel string `json:"logLevel,omitempty" yaml:"logLevel,omitempty"`

	requestTimeout time.Duration
}

// AssetsConfig points the asset server at a directory on disk.
type AssetsConfig struct {
	Folder string `json:"folder" yaml:"folder"`
}

// HTTPSConfig carries the PEM-encoded key/cert material in memory, per the
// data model's "https: {key bytes, cert bytes}" shape — no filesystem paths.
type HTTPSConfig struct {
	Key  []byte `json:"key" yaml:"key"`
	Cert []byte `json:"cert" yaml:"cert"`
}

// BrokerConfig configures the broker connection.
type BrokerConfig struct {
	URL               string `json:"url" yaml:"url"`
	ConnectTimeoutStr string `json:"connectTimeout,omitempty" yaml:"connectTimeout,omitempty"`
	RequestTimeoutStr string `json:"requestTimeout,omitempty" yaml:"requestTimeout,omitempty"`

	// TLS, when non-nil, secures the broker connection using in-memory PEM
	// material rather than filesystem paths.
	TLS *BrokerTLSConfig `json:"tls,omitempty" yaml:"tls,omitempty"`
}

// BrokerTLSConfig carries additional trust roots for the outbound broker
// connection, mirroring tlsutil.ClientConfig's in-memory shape.
type BrokerTLSConfig struct {
	CACerts            [][]byte `json:"caCerts,omitempty" yaml:"caCerts,omitempty"`
	InsecureSkipVerify bool     `json:"insecureSkipVerify,omitempty" yaml:"insecureSkipVerify,omitempty"`
	MinVersion         string   `json:"minVersion,omitempty" yaml:"minVersion,omitempty"`
}

// RouteConfig is one mount's configuration.
type RouteConfig struct {
	// Path is this mount's prefix, relative to Config.Path.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`

	// Whitelist restricts which resolved action names this mount may invoke.
	// A nil whitelist allows any action.
	Whitelist []string `json:"whitelist,omitempty" yaml:"whitelist,omitempty"`

	// Aliases maps an alias key ("path" or "METHOD path") to an action name.
	// Declaration order is preserved for first-match-wins conflict
	// resolution, which a plain Go map cannot do — see AliasList.
	Aliases AliasList `json:"aliases,omitempty" yaml:"aliases,omitempty"`

	// BodyParsers is nil to disable all body parsing for this mount.
	BodyParsers *BodyParsersConfig `json:"bodyParsers,omitempty" yaml:"bodyParsers,omitempty"`

	// RateLimit, when non-nil, caps requests per second per mount.
	RateLimit *RateLimitConfig `json:"rateLimit,omitempty" yaml:"rateLimit,omitempty"`
}

// RateLimitConfig configures a token-bucket limiter for one mount.
type RateLimitConfig struct {
	RequestsPerSecond float64 `json:"requestsPerSecond" yaml:"requestsPerSecond"`
	Burst             int     `json:"burst" yaml:"burst"`
}

// BodyParsersConfig enables JSON and/or urlencoded body decoding.
type BodyParsersConfig struct {
	JSON       BodyParserOption `json:"json,omitempty" yaml:"json,omitempty"`
	URLEncoded BodyParserOption `json:"urlencoded,omitempty" yaml:"urlencoded,omitempty"`
}

// BodyParserOption models the three-state "bool | object | absent" shape a
// parser option can take in configuration: disabled, enabled, or enabled
// with an attached JSON Schema (JSON parser only). A plain bool field can't
// distinguish "absent" from "false", and can't carry the schema at all.
type BodyParserOption struct {
	Enabled bool
	Schema  json.RawMessage
}

// UnmarshalJSON accepts either a bare boolean or an object of the form
// {"schema": {...}}, whose presence implies Enabled.
func (o *BodyParserOption) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		o.Enabled = false
		return nil
	}

	if trimmed[0] == 't' || trimmed[0] == 'f' {
		var b bool
		if err := json.Unmarshal(trimmed, &b); err != nil {
			return err
		}
		o.Enabled = b
		return nil
	}

	var obj struct {
		Schema json.RawMessage `json:"schema"`
	}
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return err
	}
	o.Enabled = true
	o.Schema = obj.Schema
	return nil
}

// UnmarshalYAML mirrors UnmarshalJSON for the YAML config loader.
func (o *BodyParserOption) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		return node.Decode(&o.Enabled)
	case yaml.MappingNode:
		var obj struct {
			Schema yaml.Node `yaml:"schema"`
		}
		if err := node.Decode(&obj); err != nil {
			return err
		}
		o.Enabled = true
		if !obj.Schema.IsZero() {
			schemaJSON, err := yamlNodeToJSON(&obj.Schema)
			if err != nil {
				return err
			}
			o.Schema = schemaJSON
		}
		return nil
	default:
		return fmt.Errorf("bodyParsers option: unsupported YAML node kind %d", node.Kind)
	}
}

// yamlNodeToJSON re-encodes a YAML node as JSON bytes, so a schema written
// in a YAML config manifest can still be fed to the JSON Schema validator.
func yamlNodeToJSON(node *yaml.Node) (json.RawMessage, error) {
	var v any
	if err := node.Decode(&v); err != nil {
		return nil, err
	}
	return json.Marshal(v)
}

// AliasEntry is one (key, action) pair from a Route Configuration's aliases.
type AliasEntry struct {
	// Key is either a bare path ("hello") matching any method, or
	// "METHOD path" ("GET hello") restricting to one method.
	Key    string
	Target string
}

// Method splits Key into its method qualifier (or "*" for any method) and
// the bare path.
func (e AliasEntry) Method() (method, path string) {
	parts := strings.SplitN(e.Key, " ", 2)
	if len(parts) == 2 {
		return strings.ToUpper(parts[0]), parts[1]
	}
	return "*", e.Key
}

// AliasList preserves the declaration order of a JSON object's keys, which
// encoding/json's default map decoding discards — order matters here
// because first-match-wins resolves conflicting alias keys.
type AliasList []AliasEntry

// UnmarshalJSON walks the raw object token stream to recover key order.
func (l *AliasList) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	delim, ok := tok.(json.Delim)
	if !ok || delim != '{' {
		return fmt.Errorf("aliases: expected object, got %v", tok)
	}

	var entries AliasList
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("aliases: expected string key, got %v", keyTok)
		}

		var target string
		if err := dec.Decode(&target); err != nil {
			return err
		}
		entries = append(entries, AliasEntry{Key: key, Target: target})
	}

	*l = entries
	return nil
}

// MarshalJSON re-emits the entries as an object, accepting that round-trip
// key order through encoding/json's own Marshal is not guaranteed once
// re-encoded — only decode order is load-bearing for resolution.
func (l AliasList) MarshalJSON() ([]byte, error) {
	m := make(map[string]string, len(l))
	for _, e := range l {
		m[e.Key] = e.Target
	}
	return json.Marshal(m)
}

// UnmarshalYAML mirrors UnmarshalJSON for the YAML config loader: yaml.v3
// preserves mapping key order in a *yaml.Node's Content slice, so the same
// order-sensitive decoding is possible without encoding/json involved.
func (l *AliasList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("aliases: expected a mapping, got kind %d", node.Kind)
	}

	entries := make(AliasList, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		entries = append(entries, AliasEntry{
			Key:    node.Content[i].Value,
			Target: node.Content[i+1].Value,
		})
	}

	*l = entries
	return nil
}

// Validate checks and normalizes the configuration, computing derived
// fields (parsed durations) in place.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Config", "Validate", "port must be between 1 and 65535")
	}

	if c.RequestTimeoutStr != "" {
		d, err := time.ParseDuration(c.RequestTimeoutStr)
		if err != nil {
			return errors.WrapInvalid(err, "Config", "Validate", fmt.Sprintf("invalid requestTimeout: %s", c.RequestTimeoutStr))
		}
		c.requestTimeout = d
	}

	if c.HTTPS != nil {
		if len(c.HTTPS.Key) == 0 || len(c.HTTPS.Cert) == 0 {
			return errors.WrapInvalid(errors.ErrInvalidConfig, "Config", "Validate", "https requires both key and cert")
		}
	}

	if c.Broker.URL == "" {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Config", "Validate", "broker.url is required")
	}

	for i := range c.Routes {
		if err := c.Routes[i].Validate(); err != nil {
			return errors.WrapInvalid(err, "Config", "Validate", fmt.Sprintf("invalid route at index %d", i))
		}
	}

	if c.Assets != nil && c.Assets.Folder == "" {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Config", "Validate", "assets.folder cannot be empty")
	}

	return nil
}

// RequestTimeout returns the parsed per-request deadline, or zero if none
// was configured.
func (c *Config) RequestTimeout() time.Duration {
	return c.requestTimeout
}

// Validate checks one mount's configuration.
func (r *RouteConfig) Validate() error {
	for _, entry := range r.Aliases {
		if entry.Target == "" {
			return errors.WrapInvalid(errors.ErrInvalidConfig, "RouteConfig", "Validate",
				fmt.Sprintf("alias %q has an empty target", entry.Key))
		}
	}

	if r.RateLimit != nil {
		if r.RateLimit.RequestsPerSecond <= 0 {
			return errors.WrapInvalid(errors.ErrInvalidConfig, "RouteConfig", "Validate", "rateLimit.requestsPerSecond must be positive")
		}
		if r.RateLimit.Burst <= 0 {
			r.RateLimit.Burst = 1
		}
	}

	return nil
}
