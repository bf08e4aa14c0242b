// Package config handles configuration loading for asfcred.
//
// # Overview
//
// Configuration is loaded from YAML files with environment variable expansion.
// The package provides validation and sensible defaults.
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	auth:
//	  jwt_secret: "${ASFCRED_JWT_SECRET}"
//
// Syntax: ${VAR_NAME}
//
// # Duration Parsing
//
// Duration values use Go's time.ParseDuration syntax:
//
//	auth:
//	  jwt_ttl: "15m"
//	  token_ttl: "2160h"
//
// Supported units: ns, us, ms, s, m, h
//
// # Configuration Sections
//
// Database:
//
//	database:
//	  path: "/var/lib/asfcred/asfcred.db"
//
// Registry backing (database by default, or a YAML allocation list):
//
//	registry:
//	  source: "file"
//	  path: "/etc/asfcred/components.yaml"
//
// Authentication:
//
//	auth:
//	  jwt_secret: "${ASFCRED_JWT_SECRET}"
//	  jwt_ttl: "15m"     # lifetime of exchanged JWTs
//	  token_ttl: "2160h" # default lifetime of new personal tokens
//
// Logging:
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
package config
