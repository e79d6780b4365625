// Package blend decodes Blender's native ".blend" save format.
//
// A .blend file is a memory dump of Blender: a 12-byte header, a linear
// stream of typed binary blocks (each stamped with the heap address it
// lived at when the file was saved), and a self-describing type catalog
// ("SDNA") near the end of the file that records every C struct layout
// Blender knew about at save time.
//
// This package is a generic, lazy, read-only runtime over that format. It
// decodes the block stream and SDNA eagerly (RawBlend), but defers
// interpreting any block's field bytes until a caller actually asks for a
// field by name (Instance). Pointer fields are resolved by looking up the
// target block's preserved memory address; linked lists are walked through
// their next/prev pointer chains; and "DATA" blocks, whose real type is
// ambiguous from the block alone, are disambiguated using the field that
// points at them.
//
// The package does not write .blend files, does not decompress gzip'd
// input (the caller does that before calling New), and does not know
// anything about meshes, cameras or materials — callers build that
// knowledge on top of Instance's generic field accessors.
package blend
