package gateway

// RequestContext carries the ephemeral, per-request state threaded through
// the resolve -> parse -> invoke -> materialize pipeline.
type RequestContext struct {
	Method  string
	RawPath string
	Query   map[string]string
	Headers map[string][]string
	Body    []byte

	// ParsedBody is nil when no body parser ran or the request carried no
	// parseable body.
	ParsedBody map[string]any

	// ResolvedAction is set once the resolver has picked a mount and
	// computed an action name.
	ResolvedAction string

	// MergedParams is Query shallow-merged with ParsedBody (body wins).
	MergedParams map[string]any

	// bodyParsers is the resolved mount's parser configuration, set by
	// Resolve so the HTTP front doesn't need to re-match the route table.
	bodyParsers *BodyParsersConfig

	// RequestID is assigned by the HTTP front and echoed as a response
	// header by the materializer.
	RequestID string
}

// mergeParams shallow-merges query then parsedBody, body winning on key
// conflicts, per the data model's merge order.
func mergeParams(query map[string]string, parsedBody map[string]any) map[string]any {
	merged := make(map[string]any, len(query)+len(parsedBody))
	for k, v := range query {
		merged[k] = v
	}
	for k, v := range parsedBody {
		merged[k] = v
	}
	return merged
}
