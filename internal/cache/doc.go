// Package cache provides LRU caching for immutable blob blocks.
//
// The ShardedLRUBlockCache distributes entries across 64 independently locked
// LRU shards so concurrent readers of different blobs rarely contend.
package cache
