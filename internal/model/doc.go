// Package model provides the data model consumed by property bindings.
//
// A model resolves binding paths and serves reads of the value at a
// resolved path. Paths are slash-separated (`/Products/1/Name`);
// a relative path is combined with a Context's base path before it can
// be read. The package ships a JSON-document-backed implementation;
// bindings only depend on the small Model contract, so other backing
// stores can be substituted.
package model
