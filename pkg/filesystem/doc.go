// Package filesystem holds the file helpers shared by the commands: afero
// backed so tests run on an in-memory filesystem, plus the timestamp based
// staleness check that lets conversions skip up to date outputs.
package filesystem
