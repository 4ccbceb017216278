// Package pathutil provides JSON Pointer helpers for AsyncAPI documents and
// safe output path handling for generated pages.
//
// # JSON Pointers
//
// AsyncAPI documents link objects with local references such as
// "#/components/messages/OrderCreated". [Split] turns such a reference into
// unescaped tokens, [Pointer] builds an escaped pointer from tokens, and
// [Resolve] walks a decoded document to the referenced node:
//
//	node, err := pathutil.Resolve(raw, "#/channels/orders~1created")
//
// [RefName] extracts the name from references to named objects such as
// "#/servers/production". [Dotted] renders tokens the way diagnostics report locations
// ("operations.sendOrder.channel").
//
// # Output Paths
//
// [SafeJoin] joins a relative page path to an output directory and rejects
// results that escape the directory or point at a symlink.
package pathutil
