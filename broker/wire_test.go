package broker

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEncodeDecodeResultRoundTrip(t *testing.T) {
	tests := []Result{
		NullResult(),
		OpaqueResult(),
		TextResult("Hello Moleculer"),
		NumberResult(13),
		BooleanResult(true),
		BytesResult([]byte{1, 2, 3}),
		ObjectResult(map[string]any{"name": "Ben", "age": float64(9)}),
	}

	for _, original := range tests {
		t.Run(original.Kind.String(), func(t *testing.T) {
			wv, err := EncodeResult(original)
			if err != nil {
				t.Fatalf("EncodeResult: %v", err)
			}

			decoded, err := DecodeResult(wv)
			if err != nil {
				t.Fatalf("DecodeResult: %v", err)
			}

			if diff := cmp.Diff(original.Kind, decoded.Kind); diff != "" {
				t.Errorf("kind mismatch (-want +got):\n%s", diff)
			}

			switch original.Kind {
			case KindText:
				if decoded.Text != original.Text {
					t.Errorf("Text = %q, want %q", decoded.Text, original.Text)
				}
			case KindNumber:
				if decoded.Number != original.Number {
					t.Errorf("Number = %v, want %v", decoded.Number, original.Number)
				}
			case KindBoolean:
				if decoded.Boolean != original.Boolean {
					t.Errorf("Boolean = %v, want %v", decoded.Boolean, original.Boolean)
				}
			case KindBytes:
				if diff := cmp.Diff(original.Bytes, decoded.Bytes); diff != "" {
					t.Errorf("Bytes mismatch (-want +got):\n%s", diff)
				}
			case KindStructuredObject:
				if diff := cmp.Diff(original.Object, decoded.Object); diff != "" {
					t.Errorf("Object mismatch (-want +got):\n%s", diff)
				}
			}
		})
	}
}

func TestEncodeResultByteStreamUnwireable(t *testing.T) {
	_, err := EncodeResult(StreamResult(nil))
	if err == nil {
		t.Fatal("expected error encoding a ByteStream result")
	}
}
