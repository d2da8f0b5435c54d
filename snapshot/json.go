package snapshot

import (
	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
)

type jsonCodec struct {
	api sonic.API
}

// jsonAPI is sonic.ConfigStd decoding whole numbers as int64 instead of float64.
var jsonAPI = sonic.Config{
	EscapeHTML:       true,
	SortMapKeys:      true,
	CompactMarshaler: true,
	CopyString:       true,
	ValidateString:   true,
	UseInt64:         true,
}.Froze()

// JSON is the default textual codec, keys are written sorted.
func JSON() Codec {
	return &jsonCodec{api: jsonAPI}
}

func (c *jsonCodec) Name() string { return "json" }

func (c *jsonCodec) Encode(s *Snapshot) ([]byte, error) {
	bytes, err := c.api.Marshal(s.toMap())
	if err != nil {
		return nil, errors.WithMessage(err, "failed to encode json snapshot")
	}
	return bytes, nil
}

func (c *jsonCodec) Decode(bytes []byte) (*Snapshot, error) {
	var raw map[string]any
	if err := c.api.Unmarshal(bytes, &raw); err != nil {
		return nil, errors.WithMessage(ErrMalformed, err.Error())
	}
	return fromMap(raw)
}
