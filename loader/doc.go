// Package loader resolves document locators into source text or parsed
// documents, keyed and fingerprinted for the registry cache.
//
// A locator is one of:
//   - an http:// or https:// URL, fetched with GET
//   - a file: URL or a filesystem path, read from disk
//   - inline AsyncAPI text, recognized when it starts with "{" or
//     "asyncapi:", or spans more than one line
//
// Fingerprints are SHA-256 digests of the source bytes, or of the
// canonical JSON of a pre-parsed document.
package loader
