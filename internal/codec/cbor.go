package codec

import (
	"github.com/fxamacker/cbor/v2"
)

// CBOR serializes values using fxamacker/cbor. Field names fall back to the
// `json` tags when no `cbor` tag is present.
// The zero value is NOT ready to use. Construct with NewCBOR or MustCBOR.
type CBOR struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

var _ Codec = CBOR{}

// NewCBOR builds the codec with preferred (smallest) encoding and RFC3339Nano
// timestamps.
func NewCBOR() (CBOR, error) {
	eo := cbor.PreferredUnsortedEncOptions()
	eo.Time = cbor.TimeRFC3339Nano

	em, err := eo.EncMode()
	if err != nil {
		return CBOR{}, err
	}
	dm, err := (cbor.DecOptions{}).DecMode()
	if err != nil {
		return CBOR{}, err
	}
	return CBOR{enc: em, dec: dm}, nil
}

// MustCBOR is like NewCBOR but panics on error. Used for registration.
func MustCBOR() CBOR {
	c, err := NewCBOR()
	if err != nil {
		panic(err)
	}
	return c
}

func (CBOR) Name() string        { return "cbor" }
func (CBOR) ContentType() string { return "application/cbor" }

func (c CBOR) Marshal(v any) ([]byte, error) {
	return c.enc.Marshal(v)
}

func (c CBOR) Unmarshal(data []byte, v any) error {
	return c.dec.Unmarshal(data, v)
}
