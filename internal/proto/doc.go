// Package proto holds the wire contract of the identity service
// (mhst.identity.v1.IdentityService).
//
// Requests and replies travel as google.protobuf.Struct so the service can
// be served and called with the stock protobuf codec. The typed views in
// messages.go convert between Go structs and those Structs; the service
// descriptor, server registration and client stub follow the shape of
// protoc-gen-go-grpc output.
//
// Failures are reported as gRPC statuses carrying a
// google.rpc.ErrorInfo detail whose Reason is one of the Reason* codes and
// whose Domain is ErrorDomain.
package proto
