// Package modality defines the reference protocol for embedding non-text
// payloads (images, audio, arbitrary binary or structured objects) inside
// message text. A modality object is stored in message metadata under a
// reference name and the text carries a delimited marker for that name;
// message.Chunk and message.FromChunks split and fuse text along these
// markers.
package modality
