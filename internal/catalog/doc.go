// Package catalog models the episode catalog used to name split outputs.
//
// A Catalog is an ordered, read-only collection of EpisodeRecord values keyed
// by (season, episode). It is loaded once per run, either from the structured
// CSV layout (SeasonNumber,EpisodeNumber,EpisodeName,AbbvCombo) or by
// ingesting freeform pasted episode listings in several recognized textual
// layouts.
package catalog
