// Package broker defines the gateway's contract with the service broker: a
// single Invoke operation returning a polymorphic Result, plus the two
// concrete adapters (in-process and NATS) that implement it.
package broker

import (
	"encoding/json"
	"io"
)

// Kind discriminates the variant held by a Result.
type Kind int

const (
	KindNull Kind = iota
	KindText
	KindNumber
	KindBoolean
	KindBytes
	KindByteStream
	KindStructuredObject
	KindOpaque
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindBoolean:
		return "boolean"
	case KindBytes:
		return "bytes"
	case KindByteStream:
		return "byteStream"
	case KindStructuredObject:
		return "structuredObject"
	case KindOpaque:
		return "opaque"
	default:
		return "unknown"
	}
}

// Result is the tagged variant an action invocation returns. Exactly one of
// the type-specific fields is meaningful, selected by Kind.
type Result struct {
	Kind Kind

	Text    string
	Number  float64
	Boolean bool
	Bytes   []byte

	// Stream holds a lazily-produced byte stream. Only the in-process
	// adapter can originate one; NATS request/reply has no notion of a
	// live stream riding the reply, so the NATS adapter never produces
	// KindByteStream results.
	Stream io.ReadCloser

	// Object holds an arbitrary JSON-shaped value (map, slice, or scalar)
	// for KindStructuredObject.
	Object any
}

// NullResult is the empty result.
func NullResult() Result { return Result{Kind: KindNull} }

// OpaqueResult stands in for a value with no natural serialization.
func OpaqueResult() Result { return Result{Kind: KindOpaque} }

// TextResult wraps a string result.
func TextResult(s string) Result { return Result{Kind: KindText, Text: s} }

// NumberResult wraps a numeric result.
func NumberResult(n float64) Result { return Result{Kind: KindNumber, Number: n} }

// BooleanResult wraps a boolean result.
func BooleanResult(b bool) Result { return Result{Kind: KindBoolean, Boolean: b} }

// BytesResult wraps a raw byte buffer result.
func BytesResult(b []byte) Result { return Result{Kind: KindBytes, Bytes: b} }

// StreamResult wraps a lazily-read byte stream result.
func StreamResult(r io.ReadCloser) Result { return Result{Kind: KindByteStream, Stream: r} }

// ObjectResult wraps a structured (map/slice/scalar) result.
func ObjectResult(v any) Result { return Result{Kind: KindStructuredObject, Object: v} }

// bufferObject is the `{type:"Buffer", data:[...]}` shape the materializer
// recognizes as a byte buffer smuggled through a StructuredObject.
type bufferObject struct {
	Type string `json:"type"`
	Data []byte `json:"data"`
}

// AsBuffer reports whether a StructuredObject result is actually a
// `{type:"Buffer", data:[...]}` encoded byte buffer, returning the bytes if so.
func (r Result) AsBuffer() ([]byte, bool) {
	if r.Kind != KindStructuredObject {
		return nil, false
	}

	// Object may already be decoded into a generic map (e.g. from JSON
	// over the wire) or may be a typed bufferObject constructed in-process.
	switch v := r.Object.(type) {
	case bufferObject:
		return v.Data, true
	case map[string]any:
		if t, ok := v["type"].(string); !ok || t != "Buffer" {
			return nil, false
		}
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, false
		}
		var buf bufferObject
		if err := json.Unmarshal(raw, &buf); err != nil {
			return nil, false
		}
		return buf.Data, true
	default:
		return nil, false
	}
}

// BufferResult builds a StructuredObject result in the `{type:"Buffer",
// data:[...]}` shape, for actions that want to return bytes via the
// structured-object channel instead of KindBytes.
func BufferResult(data []byte) Result {
	return ObjectResult(bufferObject{Type: "Buffer", Data: data})
}
