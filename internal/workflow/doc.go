// Package workflow orchestrates a batch run over the input directory.
//
// The Runner discovers source files, enqueues them, and drives each item
// through the detect, assemble, and match stages. Files are isolated
// from each other: a failure is recorded on its item and the run moves
// on to the next file. A file lock serializes whole runs so two
// invocations cannot fight over the staging and output directories.
package workflow
