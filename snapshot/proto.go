package snapshot

import (
	"github.com/pkg/errors"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

type protoCodec struct{}

// Proto stores the same document as a binary google.protobuf.Struct.
// Values must be json-like: nil, bool, numbers, string, []any, map[string]any.
func Proto() Codec {
	return protoCodec{}
}

func (protoCodec) Name() string { return "proto" }

func (protoCodec) Encode(s *Snapshot) ([]byte, error) {
	document, err := structpb.NewStruct(s.toMap())
	if err != nil {
		return nil, errors.WithMessage(err, "failed to convert snapshot to struct")
	}
	bytes, err := proto.Marshal(document)
	if err != nil {
		return nil, errors.WithMessage(err, "failed to encode proto snapshot")
	}
	return bytes, nil
}

func (protoCodec) Decode(bytes []byte) (*Snapshot, error) {
	document := &structpb.Struct{}
	if err := proto.Unmarshal(bytes, document); err != nil {
		return nil, errors.WithMessage(ErrMalformed, err.Error())
	}
	return fromMap(document.AsMap())
}
