// Package fontcache provides a client-side font-loading runtime with a
// persistent binary cache.
//
// The persistent store's transactional API gives no ordering guarantee
// across independently issued operations, so every record store is guarded
// by a chain sequencer that serializes access (see package sequence).  The
// runtime layers cache-through loading, format sniffing and content
// digests on top.
//
// End-users interact through the high-level Service façade exposed by the
// root package:
//
//	srv, _ := fontcache.New(fontcache.WithStoreVendor("fs"), fontcache.WithBaseURL("/var/cache/fonts"))
//	defer srv.Close()
//	asset, _ := srv.Loader().Load(ctx, font.Face{Family: "Inter", URL: "https://fonts.example/inter.woff2"})
//
// For more details see the individual sub-packages.
package fontcache
