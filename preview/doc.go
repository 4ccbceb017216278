// Package preview derives the data a try-it panel shows for an operation:
// example payloads, editable drafts, a parameter table per message, and
// the list of servers a client can connect to.
package preview
