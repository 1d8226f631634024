// Package observability builds the zap logger shared by every component of the
// registration service.
package observability
