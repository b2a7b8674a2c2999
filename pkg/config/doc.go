// Package config loads modelconv settings with koanf. Sources are layered
// from the embedded defaults up to command line flags, later sources
// overriding earlier ones.
package config
