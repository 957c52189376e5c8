// Package hcl provides the concrete HCL implementation of the descriptor
// loading interface defined in the config package. It is responsible for
// file parsing, HCL-to-model translation, and CTY value conversion.
package hcl
