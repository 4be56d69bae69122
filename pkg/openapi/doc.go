// Package openapi resolves record-kind declarations from OpenAPI documents.
// The component schema named after a kind becomes its ordered attribute
// declarations: object properties and $ref'd components map to nested
// resource types, arrays to collections, required lists to presence rules.
// It is the concrete external schema source behind resource.AttributeSource.
package openapi
