// Package fileaccess abstracts file storage behind a single capability
// interface with two realizations:
//   - local: disk-backed access rooted at a directory, glob pattern
//     resolution, platform creation times where available
//   - virtual: in-memory namespace, optionally seeded from ZIP/TAR
//     archives (gzip and zstd compression supported)
//
// Pattern resolution maps a path expression (directory plus optional
// wildcard suffix, `**` for recursive matches) to an ordered list of
// handles. Handles are cheap references: metadata is fetched on Stat,
// content on Open, never during resolution.
package fileaccess
