package broker

import "encoding/json"

// wireRequest is the envelope sent as the NATS request payload.
type wireRequest struct {
	Params map[string]any `json:"params"`
}

// wireReply is the envelope a broker service sends back over NATS
// request/reply: exactly one of Result or Error is populated.
type wireReply struct {
	OK     bool       `json:"ok"`
	Result *wireValue `json:"result,omitempty"`
	Error  *wireError `json:"error,omitempty"`
}

// wireValue carries one Result variant across the wire. ByteStream has no
// wire representation — a NATS reply is a single message, not a stream — so
// encoding a KindByteStream result is an error.
type wireValue struct {
	Kind  string          `json:"kind"`
	Value json.RawMessage `json:"value,omitempty"`
}

// wireError mirrors the broker's own error shape: { code, name, message, data? }.
type wireError struct {
	Code    int             `json:"code"`
	Name    string          `json:"name"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// EncodeResult converts a Result into its wire representation.
func EncodeResult(r Result) (*wireValue, error) {
	wv := &wireValue{Kind: r.Kind.String()}

	var raw json.RawMessage
	var err error

	switch r.Kind {
	case KindNull, KindOpaque:
		return wv, nil
	case KindText:
		raw, err = json.Marshal(r.Text)
	case KindNumber:
		raw, err = json.Marshal(r.Number)
	case KindBoolean:
		raw, err = json.Marshal(r.Boolean)
	case KindBytes:
		raw, err = json.Marshal(r.Bytes)
	case KindStructuredObject:
		raw, err = json.Marshal(r.Object)
	case KindByteStream:
		return nil, errByteStreamNotWireable
	default:
		return nil, errUnknownResultKind
	}
	if err != nil {
		return nil, err
	}
	wv.Value = raw
	return wv, nil
}

// DecodeResult converts a wire value back into a Result.
func DecodeResult(wv *wireValue) (Result, error) {
	switch wv.Kind {
	case "null":
		return NullResult(), nil
	case "opaque":
		return OpaqueResult(), nil
	case "text":
		var s string
		if err := json.Unmarshal(wv.Value, &s); err != nil {
			return Result{}, err
		}
		return TextResult(s), nil
	case "number":
		var n float64
		if err := json.Unmarshal(wv.Value, &n); err != nil {
			return Result{}, err
		}
		return NumberResult(n), nil
	case "boolean":
		var b bool
		if err := json.Unmarshal(wv.Value, &b); err != nil {
			return Result{}, err
		}
		return BooleanResult(b), nil
	case "bytes":
		var b []byte
		if err := json.Unmarshal(wv.Value, &b); err != nil {
			return Result{}, err
		}
		return BytesResult(b), nil
	case "structuredObject":
		var v any
		if err := json.Unmarshal(wv.Value, &v); err != nil {
			return Result{}, err
		}
		return ObjectResult(v), nil
	default:
		return Result{}, errUnknownResultKind
	}
}

type wireSentinelError string

func (e wireSentinelError) Error() string { return string(e) }

const (
	errByteStreamNotWireable = wireSentinelError("broker: ByteStream results cannot cross the NATS wire")
	errUnknownResultKind     = wireSentinelError("broker: unknown result kind on the wire")
)
