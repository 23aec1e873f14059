// Package api defines the notes store RPC surface: request and response
// messages, the gRPC service description and a typed client.
//
// Messages are plain Go structs carried over gRPC with a JSON codec, so
// both sides share this package instead of generated stubs.
package api
