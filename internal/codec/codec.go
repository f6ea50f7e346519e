// Package codec holds the wire formats negotiated with the upstream API and
// reused verbatim for cache payloads. The body bytes stored on disk are
// exactly the bytes the server sent, so the codec that decodes a cached entry
// must be the one that was negotiated when it was written.
package codec

import (
	"fmt"
	"mime"
	"sort"
	"strings"
)

// Codec encodes/decodes resource values for the wire.
type Codec interface {
	// Name is the stable identifier persisted next to cached bodies.
	Name() string
	// ContentType is sent as Content-Type and Accept.
	ContentType() string
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

var registry = map[string]Codec{}

func register(c Codec) {
	registry[c.Name()] = c
}

func init() {
	register(Msgpack{})
	register(MustCBOR())
	register(JSON{})
}

// Lookup returns the codec registered under name ("msgpack", "cbor", "json").
func Lookup(name string) (Codec, error) {
	c, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("codec: unknown wire format %q", name)
	}
	return c, nil
}

// ForContentType resolves a Content-Type/Accept header value to a codec.
// Parameters such as charset are ignored.
func ForContentType(value string) (Codec, bool) {
	for _, part := range strings.Split(value, ",") {
		media, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		for _, c := range registry {
			if strings.EqualFold(c.ContentType(), media) {
				return c, true
			}
		}
	}
	return nil, false
}

// Names lists the registered codec names in stable order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
