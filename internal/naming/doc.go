// Package naming provides slug and case helpers shared by the page
// builder, the operation filters and the CLI.
//
// Slugs are ASCII: accented letters are folded to their base letter
// before every run of non-alphanumeric characters collapses to a single
// hyphen.
package naming
