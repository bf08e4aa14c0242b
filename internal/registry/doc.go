// Package registry provides component namespace registries backing the
// token.Registry capability: an in-memory Static set and a YAML
// allocation-list File. Persistent, audited allocation lives in the
// store package.
package registry
