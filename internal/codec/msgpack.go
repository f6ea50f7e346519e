package codec

import "github.com/vmihailenco/msgpack/v5"

// Msgpack serializes values using vmihailenco/msgpack/v5. It is the default
// wire format. The zero value is ready to use.
//
// Struct fields are matched by their `msgpack` tags, so models carry both
// `json` and `msgpack` tags.
type Msgpack struct{}

func (Msgpack) Name() string        { return "msgpack" }
func (Msgpack) ContentType() string { return "application/msgpack" }

func (Msgpack) Marshal(v any) ([]byte, error) {
	return msgpack.Marshal(v)
}

func (Msgpack) Unmarshal(data []byte, v any) error {
	return msgpack.Unmarshal(data, v)
}
