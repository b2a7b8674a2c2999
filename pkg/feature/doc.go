// Package feature holds the feature model: a single identity with flat
// bundle, configuration, framework property and extension lists.
//
// Read and Write handle the JSON form. Key order of every object is
// preserved, configuration values keep their type through "key:Type"
// hints and extensions are keyed "name:TYPE|state".
//
// Prototypes are resolved with Assemble through a Provider.
package feature
