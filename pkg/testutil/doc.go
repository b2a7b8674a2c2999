// Package testutil holds the fixtures shared by the modelconv tests.
//
// Model files are written to an in-memory afero filesystem so tests never
// touch the working directory. IsolateEnv points the XDG directories and the
// MODELCONV_ environment at a temporary directory for tests that run the CLI.
package testutil
