// Package scan detects leaked credential tokens in unstructured text.
//
// Detection is tiered the way the token format is designed for: a cheap
// structural grammar match first, then CRC-32 checksum confirmation to
// suppress false positives, and finally an optional registry membership
// check for callers with registry access. The structural tier is the
// same explicit state machine the token package uses for validation, so
// detector behavior always agrees with the published wire pattern.
package scan
