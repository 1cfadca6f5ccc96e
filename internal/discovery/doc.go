// Package discovery finds service definitions on disk.
//
// A discovery directory holds YAML files, each containing one or more
// definitions. Files are read in lexical order so the resulting set, and
// with it the boot order within a group, is stable between runs.
//
// Scans are memoized per directory in a TTL cache. Concurrent callers asking
// for the same directory share one scan. A Watcher can be attached to drop
// the cached entry as soon as the directory changes.
package discovery
