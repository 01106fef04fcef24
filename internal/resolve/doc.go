// Package resolve turns an author-supplied site configuration into the fully
// validated, defaulted and path-resolved form a documentation engine consumes.
//
// Resolution is a pure, synchronous function of its input and options. The
// steps run in a fixed order and the first failure is returned as one of the
// typed errors in errors.go:
//
//  1. locale consistency
//  2. required fields
//  3. site field well-formedness
//  4. presets (registry lookup and option schemas)
//  5. plugins (option schemas and ordering)
//  6. theme (validation merged over engine defaults)
//  7. file references (existence checks when a filesystem is configured)
//
// The ResolvedConfig returned on success shares no memory with the input and
// encodes to byte-identical JSON for identical inputs.
package resolve
