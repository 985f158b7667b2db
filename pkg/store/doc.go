// Package store persists analysis snapshots.
//
// A snapshot is one [site.Structure] saved with the project it belongs to,
// so structure can be compared across time or served without a rescan.
// [MongoStore] keeps snapshots in a MongoDB collection; [MemoryStore] keeps
// them in process for tests and single-run CLI use.
//
//	st, err := store.NewMongoStore(ctx, store.MongoOptions{URI: uri})
//	if err != nil {
//	    return err
//	}
//	defer st.Close(ctx)
//	snap, err := st.Save(ctx, projectDir, structure)
//
// Import maps are stored as edge lists because file paths contain dots,
// which MongoDB discourages in field names.
//
// [site.Structure]: github.com/matzehuels/sitegraph/pkg/site.Structure
package store
