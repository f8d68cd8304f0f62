// Package matching resolves episode identities.
//
// It parses source filenames into show, season, episode numbers, and raw
// titles, then resolves each raw title against the episode catalog using
// fuzzy title similarity with an exact (season, episode) lookup as
// backstop. Resolved identities drive the final output filenames; when
// nothing in the catalog clears the similarity threshold a placeholder
// identity is synthesized from the filename so the pipeline still
// produces a usable name.
package matching
