package api

import (
	"encoding/json"

	"connectrpc.com/connect"
)

var _ connect.Codec = JSONCodec{}

// JSONCodec serializes the plain Go messages in this package. It registers
// under the "json" name, replacing Connect's protobuf JSON codec, so clients
// send application/json (unary) or application/connect+json (streams).
type JSONCodec struct{}

// Name implements connect.Codec.
func (JSONCodec) Name() string { return "json" }

// Marshal implements connect.Codec.
func (JSONCodec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

// Unmarshal implements connect.Codec.
func (JSONCodec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, msg)
}
