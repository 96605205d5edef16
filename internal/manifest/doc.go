// Package manifest models Kubernetes manifest files as generic structured documents.
//
// A manifest file is a stream of one or more YAML (or JSON) documents. Each
// document is decoded into a mapping tree of map[string]interface{},
// []interface{} and scalar values, the same representation used by
// unstructured.Unstructured. Integers decode to int64 so values written by
// callers compare equal to values read back after a round trip.
//
// Fields are addressed with a [Path], an ordered list of mapping keys:
//
//	docs, err := manifest.ParseStream(data)
//	...
//	err = docs[0].Set(manifest.P("data", "ROOK_ENABLE_DISCOVERY_DAEMON"), "true")
//	out, err := manifest.SerializeStream(docs)
//
// Serialization does not preserve comments or key order; keys are written
// sorted, which keeps output deterministic across runs.
package manifest
