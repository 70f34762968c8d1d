// Package openapi embeds the OpenAPI description of the animal API so the
// server can publish it alongside the routes it documents.
package openapi

import _ "embed"

// AnimalsSpec contains the OpenAPI document for the animal API.
//
//go:embed animals.yaml
var AnimalsSpec []byte

// Spec returns a copy of the embedded OpenAPI YAML.
func Spec() []byte {
	return append([]byte(nil), AnimalsSpec...)
}
