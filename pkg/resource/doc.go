// Package resource implements the record-kind schema engine: per-kind
// attribute registries, typed record instances, validation cascading across
// nested resources, and structural serialization.
//
// Kinds are declared once against a Registry and treated as immutable
// afterwards. Record instances hold typed attribute state and are mutated
// only through the declared accessor contract; type coercion is delegated to
// a pluggable Caster and markup generation to a pluggable Renderer, keeping
// the engine decoupled from concrete primitive types and output formats.
package resource
