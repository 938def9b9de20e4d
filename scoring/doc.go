// Package scoring is the evaluation consumer of the message model. A
// Scoring harness audits completed exchanges (input message, output
// message), assigns each a numeric score through a pluggable Scorer and
// aggregates score/failure rates. It only reads messages — text, metadata
// paths and tag-filtered chain traversal — and never mutates them.
package scoring
