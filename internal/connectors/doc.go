// Package connectors holds the adapters that bring source content into
// the corpus. Only the local filesystem is supported.
package connectors
