// Package pageparse extracts structured data from HTML pages.
// It fetches documents over HTTP (optionally through a proxy), runs a
// catalogue of extraction passes over the parsed tree, and fans batches of
// URLs out over a bounded worker pool while keeping results in input order.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, sqlite/, http/).
package pageparse
