// Package kanbaru holds release metadata for the kanbaru module.
package kanbaru

// Version is the current release of the kanbaru module and CLI.
const Version = "0.1.0"
