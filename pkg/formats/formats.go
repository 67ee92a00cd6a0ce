// Package formats reads and writes the mesh file formats togetoge exchanges
// with other tools.
//
// Wavefront OBJ is the only format. Vertex ("v"), face ("f") and line ("l")
// records are kept; texture coordinates, normals, groups and materials are
// skipped on read. Indices are 0-based in memory and 1-based on disk.
// Paths ending in ".zst" are zstd-compressed.
package formats
