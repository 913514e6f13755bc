// Package jsonx selects the JSON codec used for manifests and HTTP payloads:
// goccy/go-json by default, bytedance/sonic when built with -tags sonic.
package jsonx
