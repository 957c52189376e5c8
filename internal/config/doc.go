// Package config defines the unified, format-agnostic descriptor model for a
// task pipeline, together with the Loader interface that format-specific
// front-ends (HCL, YAML) implement. Everything downstream of the loaders
// (plan building, scheduling, dispatch) consumes only this model.
package config
