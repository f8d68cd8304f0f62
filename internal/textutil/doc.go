// Package textutil provides text processing utilities for episode title
// normalization, similarity scoring, and filename sanitization.
//
// The primary use cases are:
//   - Normalizing episode titles so catalog entries and filename fragments
//     compare cleanly despite punctuation and abbreviation differences
//   - Computing edit-distance ratios and token-fingerprint cosine similarity
//     for fuzzy catalog matching
//   - Sanitizing derived output filenames for safe filesystem use
//
// Fingerprints use term frequency vectors normalized for efficient comparison.
// The tokenization process lowercases text, splits on non-alphanumeric
// characters, and filters tokens shorter than 3 characters.
package textutil
