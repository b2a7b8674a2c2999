// Package types holds the building blocks shared by the provisioning and
// feature model packages: Maven artifact coordinates and an insertion
// ordered map.
package types
