package broker

import "testing"

func TestAsBuffer(t *testing.T) {
	tests := []struct {
		name    string
		result  Result
		wantOK  bool
		wantLen int
	}{
		{"not structured", TextResult("hi"), false, 0},
		{"buffer object", BufferResult([]byte("hello")), true, 5},
		{"plain structured object", ObjectResult(map[string]any{"a": 1}), false, 0},
		{
			"decoded-from-wire buffer map",
			ObjectResult(map[string]any{"type": "Buffer", "data": []any{float64(104), float64(105)}}),
			true, 2,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			data, ok := test.result.AsBuffer()
			if ok != test.wantOK {
				t.Fatalf("expected ok=%v, got %v", test.wantOK, ok)
			}
			if ok && len(data) != test.wantLen {
				t.Errorf("expected len %d, got %d", test.wantLen, len(data))
			}
		})
	}
}

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindNull, "null"},
		{KindText, "text"},
		{KindNumber, "number"},
		{KindBoolean, "boolean"},
		{KindBytes, "bytes"},
		{KindByteStream, "byteStream"},
		{KindStructuredObject, "structuredObject"},
		{KindOpaque, "opaque"},
		{Kind(99), "unknown"},
	}

	for _, test := range tests {
		if got := test.kind.String(); got != test.want {
			t.Errorf("Kind(%d).String() = %q, want %q", test.kind, got, test.want)
		}
	}
}
