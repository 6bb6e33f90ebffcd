package staffingv1

import (
	"encoding/json"
	"fmt"

	"google.golang.org/grpc/encoding"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

// CodecName は content-subtype として使うコーデック名です (application/grpc+json)。
const CodecName = "json"

func init() {
	encoding.RegisterCodec(Codec{})
}

// Codec は gRPC メッセージを JSON で符号化します。proto.Message は protojson で扱います。
type Codec struct{}

// Name はコーデック名を返します。
func (Codec) Name() string {
	return CodecName
}

// Marshal は v を JSON に変換します。
func (Codec) Marshal(v any) ([]byte, error) {
	if m, ok := v.(proto.Message); ok {
		return protojson.Marshal(m)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("staffingv1: marshal %T: %w", v, err)
	}
	return b, nil
}

// Unmarshal は JSON を v に復元します。未知のフィールドは無視します。
func (Codec) Unmarshal(data []byte, v any) error {
	if m, ok := v.(proto.Message); ok {
		return protojson.UnmarshalOptions{DiscardUnknown: true}.Unmarshal(data, m)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("staffingv1: unmarshal %T: %w", v, err)
	}
	return nil
}
