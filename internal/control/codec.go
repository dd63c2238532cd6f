package control

import "github.com/goccy/go-json"

// Codec is the gRPC codec the control plane speaks: plain JSON, so the
// messages are ordinary Go structs and need no generated code.
type Codec struct{}

func (Codec) Name() string { return "json" }

func (Codec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (Codec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
