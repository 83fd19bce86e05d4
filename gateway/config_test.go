package gateway

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAliasList_UnmarshalJSON_PreservesOrder(t *testing.T) {
	raw := []byte(`{"add":"math.add","GET hello":"test.hello","POST hello":"test.greeter"}`)

	var list AliasList
	require.NoError(t, json.Unmarshal(raw, &list))

	require.Equal(t, AliasList{
		{Key: "add", Target: "math.add"},
		{Key: "GET hello", Target: "test.hello"},
		{Key: "POST hello", Target: "test.greeter"},
	}, list)
}

func TestAliasEntry_Method(t *testing.T) {
	tests := []struct {
		key        string
		wantMethod string
		wantPath   string
	}{
		{"hello", "*", "hello"},
		{"GET hello", "GET", "hello"},
		{"post hello", "POST", "hello"},
	}

	for _, test := range tests {
		entry := AliasEntry{Key: test.key}
		method, path := entry.Method()
		require.Equal(t, test.wantMethod, method)
		require.Equal(t, test.wantPath, path)
	}
}

func TestBodyParserOption_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantEnable bool
		wantSchema bool
	}{
		{"bare true", `true`, true, false},
		{"bare false", `false`, false, false},
		{"null", `null`, false, false},
		{"object without schema", `{}`, true, false},
		{"object with schema", `{"schema":{"type":"object"}}`, true, true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var opt BodyParserOption
			require.NoError(t, json.Unmarshal([]byte(test.raw), &opt))
			require.Equal(t, test.wantEnable, opt.Enabled)
			require.Equal(t, test.wantSchema, len(opt.Schema) > 0)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"missing broker url", Config{Port: 8080}, true},
		{"bad port", Config{Port: 0, Broker: BrokerConfig{URL: "nats://x"}}, true},
		{"https without cert", Config{Port: 8080, Broker: BrokerConfig{URL: "nats://x"}, HTTPS: &HTTPSConfig{}}, true},
		{"valid minimal", Config{Port: 8080, Broker: BrokerConfig{URL: "nats://x"}}, false},
		{
			"valid requestTimeout",
			Config{Port: 8080, Broker: BrokerConfig{URL: "nats://x"}, RequestTimeoutStr: "2s"},
			false,
		},
		{
			"bad requestTimeout",
			Config{Port: 8080, Broker: BrokerConfig{URL: "nats://x"}, RequestTimeoutStr: "nope"},
			true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := test.cfg.Validate()
			if test.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestConfig_RequestTimeoutParsed(t *testing.T) {
	cfg := Config{Port: 8080, Broker: BrokerConfig{URL: "nats://x"}, RequestTimeoutStr: "250ms"}
	require.NoError(t, cfg.Validate())
	require.Equal(t, int64(250), cfg.RequestTimeout().Milliseconds())
}

func TestBrokerConfig_TLS_JSONRoundTrip(t *testing.T) {
	raw := []byte(`{"url":"nats://x","tls":{"caCerts":["LS0t"],"insecureSkipVerify":true,"minVersion":"1.3"}}`)

	var cfg BrokerConfig
	require.NoError(t, json.Unmarshal(raw, &cfg))

	require.NotNil(t, cfg.TLS)
	require.True(t, cfg.TLS.InsecureSkipVerify)
	require.Equal(t, "1.3", cfg.TLS.MinVersion)
	require.Len(t, cfg.TLS.CACerts, 1)
}

func TestRouteConfig_Validate_RateLimit(t *testing.T) {
	r := RouteConfig{RateLimit: &RateLimitConfig{RequestsPerSecond: 0}}
	require.Error(t, r.Validate())

	r = RouteConfig{RateLimit: &RateLimitConfig{RequestsPerSecond: 10, Burst: 0}}
	require.NoError(t, r.Validate())
	require.Equal(t, 1, r.RateLimit.Burst)
}
