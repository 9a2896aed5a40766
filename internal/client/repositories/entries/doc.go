// Package entries holds the client's transient copy of the diary entries.
//
// # Overview
//
// The Remote Entry Store owns all entries; the client only caches the result
// of its most recent list call. The Repository interface describes that
// cache and MemoryRepository implements it in memory.
//
// # Generations
//
// Every fetch reserves a generation with Begin before it calls the store and
// hands the result to Commit. Commit ignores a result whose generation is not
// newer than the one already stored, so a slow fetch that started first can
// never overwrite the list written by a fetch that started after it. Clear
// invalidates every fetch still in flight.
//
// Typical Usage
//
//	gen := repo.Begin()
//	list, err := api.List(ctx)
//	if err == nil {
//		repo.Commit(gen, list)
//	}
package entries
