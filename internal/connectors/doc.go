// Package connectors contains the adapters that read source documents.
// The filesystem connector is the only source: a local documents directory.
package connectors
