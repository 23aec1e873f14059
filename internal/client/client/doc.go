// Package client talks to the notes store.
//
// Client is the transport-agnostic contract used by the client services;
// GRPCClient implements it over gRPC. GRPCClient remembers the access token
// issued by LookupUser or CreateUser and attaches it to every later call.
//
// gRPC status codes are mapped to the sentinel errors in errors.go, so
// callers match with errors.Is and never inspect status codes themselves.
package client
