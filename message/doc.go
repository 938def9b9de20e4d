// Package message implements the conversational record exchanged between
// users, models and transforms: natural-language text plus a sender, a
// structured metadata tree, provenance tags and a backward source link.
//
// Messages form a finite acyclic chain through their source links; Trace,
// Last and Root walk that chain to recover inputs, raw model responses and
// final outputs. Field mutations performed through Set are tracked inside
// the current update scope for auditing, and text can be split into plain
// text and modality segments via Chunk / fused back via FromChunks.
//
// A Message is not safe for concurrent mutation. It is designed for
// single-goroutine, cooperative use within one request/response cycle;
// callers that share a message across goroutines must synchronize
// externally. Chain traversal is a pure read and may run concurrently with
// other reads.
package message
