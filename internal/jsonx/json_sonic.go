//go:build sonic

package jsonx

import "github.com/bytedance/sonic"

// Codec names the JSON implementation compiled in.
const Codec = "bytedance/sonic"

var (
	Marshal       = sonic.ConfigStd.Marshal
	MarshalIndent = sonic.ConfigStd.MarshalIndent
	Unmarshal     = sonic.ConfigStd.Unmarshal
)
