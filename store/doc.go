// Package store persists filters in a blob store.
//
// Each filter is written as one blob: a small envelope carrying the
// compression type and a CRC32-C checksum of the encoded filter, followed by
// the (optionally compressed) filter bytes.
//
//	blobs := blobstore.NewLocalStore("/var/lib/filters")
//	st, err := store.New(blobs, codec.String(), store.WithCompression(store.ZSTD))
//	if err != nil {
//	    return err
//	}
//	err = st.Save(ctx, "users", f)
//	f, err = st.Load(ctx, "users")
//
// Concurrent loads of the same name share one backend read. Loaded filters
// are immutable and safe to share.
package store
