// Package hatch scaffolds new lint plugins into an existing analysis tool
// source tree.
package hatch

// Version is the hatch release.
const Version = "0.3.0"
