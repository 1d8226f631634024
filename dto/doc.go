// Package dto holds the request and response records exchanged over HTTP.
// Persistence models never leave the service layer; handlers map them here.
package dto
