// Package viewsrc provides the places deferred view bundles are loaded from.
//
// A Source maps a bundle name such as "DashboardView.js" to its bytes. Three
// implementations are provided:
//
//   - Dir reads bundles from a filesystem (usually os.DirFS of a build
//     output directory)
//   - S3 reads bundles from an S3 bucket, optionally under a key prefix
//   - None never finds anything, so every deferred view mounts without code
//
// Missing bundles are reported with ErrNotExist so callers can tell them
// apart from transport failures.
package viewsrc
