// Package api defines the wire messages of the Splitty RPC services.
//
// Messages are plain structs encoded as JSON. Amounts travel as decimal strings
// ("12.5", "-0.00000001") so no precision is lost in JavaScript clients.
package api

import (
	"encoding/json"
	"fmt"
)

// CodecName is the Connect codec name, served as application/json.
const CodecName = "json"

// JSONCodec is a connect.Codec for the plain message structs in this package.
type JSONCodec struct{}

func (JSONCodec) Name() string { return CodecName }

func (JSONCodec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (JSONCodec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("invalid %T: %w", msg, err)
	}
	return nil
}
