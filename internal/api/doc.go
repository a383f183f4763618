// Package api handles incoming HTTP requests, routing, request decoding,
// and response formatting. It acts as an adapter between external clients
// and the task and user services, translating HTTP concerns to service
// operations and service errors back to status codes.
//
// Every response body is a shared.Envelope. The FeedHub pushes task events
// to WebSocket clients, filtered through the same authorization gate the
// services use.
package api
