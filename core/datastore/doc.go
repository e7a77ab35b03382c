// Package datastore implements plugin.Source and plugin.Sink over the places
// a load order can live:
//
//   - DirSource / DirSink: a directory of plugin documents and a plugins.txt.
//     The sink writes atomically under an inter-process file lock.
//   - BucketStore: objects under a prefix of an S3 compatible bucket.
//   - DatabaseStore: the plugins table (name, load_index, enabled, format,
//     payload), checked against the expected columns before reading.
//
// Open picks the source for a plugin.Config.
package datastore
