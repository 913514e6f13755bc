//go:build !sonic

package jsonx

import "github.com/goccy/go-json"

// Codec names the JSON implementation compiled in.
const Codec = "goccy/go-json"

var (
	Marshal       = json.Marshal
	MarshalIndent = json.MarshalIndent
	Unmarshal     = json.Unmarshal
)
