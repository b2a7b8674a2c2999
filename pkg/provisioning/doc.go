// Package provisioning implements the Sling provisioning model: an object
// graph of features, run modes, start level groups, configurations and
// settings, a reader and writer for its text format, and the helpers that
// turn several model files into one effective model (merging, variable
// resolution, validation and active run mode calculation).
package provisioning
