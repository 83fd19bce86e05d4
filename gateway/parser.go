package gateway

import (
	"encoding/json"
	"mime"
	"net/url"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/sembus/apigw/errors"
)

// parseBody decodes rc.Body into rc.ParsedBody according to cfg, per §4.3.
// A nil cfg disables all parsing and leaves ParsedBody nil. If the parser
// recognized for the request's content-type is not enabled, the body is
// left unparsed rather than treated as an error — resolution proceeds with
// query params only.
func parseBody(rc *RequestContext, cfg *BodyParsersConfig) error {
	if cfg == nil || len(rc.Body) == 0 {
		return nil
	}

	contentType := firstHeader(rc.Headers, "Content-Type")
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.TrimSpace(contentType)
	}

	switch mediaType {
	case "application/json":
		if !cfg.JSON.Enabled {
			return nil
		}
		return parseJSONBody(rc, cfg.JSON.Schema)

	case "application/x-www-form-urlencoded":
		if !cfg.URLEncoded.Enabled {
			return nil
		}
		return parseURLEncodedBody(rc)

	default:
		return nil
	}
}

func parseJSONBody(rc *RequestContext, schema json.RawMessage) error {
	var decoded map[string]any
	if err := json.Unmarshal(rc.Body, &decoded); err != nil {
		return errors.InvalidRequestBody(string(rc.Body), err)
	}

	if len(schema) > 0 {
		if err := validateAgainstSchema(decoded, schema); err != nil {
			return err
		}
	}

	rc.ParsedBody = decoded
	return nil
}

func validateAgainstSchema(decoded map[string]any, schema json.RawMessage) error {
	schemaLoader := gojsonschema.NewBytesLoader(schema)
	docLoader := gojsonschema.NewGoLoader(decoded)

	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return errors.InternalError(err)
	}
	if result.Valid() {
		return nil
	}

	failures := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		failures = append(failures, e.String())
	}
	return errors.Validation("request body failed schema validation", failures)
}

func parseURLEncodedBody(rc *RequestContext) error {
	values, err := url.ParseQuery(string(rc.Body))
	if err != nil {
		return errors.InvalidRequestBody(string(rc.Body), err)
	}

	decoded := make(map[string]any, len(values))
	for k, v := range values {
		if len(v) > 0 {
			decoded[k] = v[0]
		}
	}
	rc.ParsedBody = decoded
	return nil
}

func firstHeader(headers map[string][]string, key string) string {
	for k, v := range headers {
		if strings.EqualFold(k, key) && len(v) > 0 {
			return v[0]
		}
	}
	return ""
}
