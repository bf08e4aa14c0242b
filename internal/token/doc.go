// Package token implements the codec for structured, scannable
// credential tokens.
//
// # Wire Format
//
// Tokens are UTF-8 strings of the form:
//
//	asf_<component>_<entropy><checksum>
//
// where component is 3-6 lowercase ASCII letters naming an issuer
// namespace, entropy is exactly 27 base62 characters, and checksum is
// the 6-character base62 encoding of the IEEE 802.3 CRC-32 of the
// entropy characters' ASCII bytes. Total length is 41-44 bytes. The
// published detection pattern is available as the Pattern constant.
//
// # Operations
//
//   - Generator.Generate mints a token for an allocated component,
//     drawing entropy from a cryptographically secure source.
//   - Parse matches a whole string against the grammar.
//   - Validate adds the checksum tier; ValidateAllocated adds the
//     registry tier.
//   - FindNext scans free text for structural matches and backs the
//     scan package's detector.
//
// # Error Handling
//
// Failures are reported as distinct sentinel errors so enforcement and
// scanning callers can branch: ErrInvalidComponent,
// ErrUnallocatedComponent, ErrRegistryUnavailable, ErrMalformedToken
// (wrapped by *ParseError with the rejecting machine state),
// ErrChecksumMismatch, and ErrEntropySource.
//
// All parsing and validation is pure and safe for concurrent use; only
// generation touches an external resource (the entropy reader).
package token
