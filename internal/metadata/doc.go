// Package metadata provides display types and path-driven type
// inference for property bindings.
//
// A metadata document maps path patterns to type declarations. When a
// binding has no explicit type or formatter it may ask the Resolver
// for an inferred type; the lookup is asynchronous, mirroring a
// service-backed metadata source.
package metadata
