// Package calcjob is the orchestrator-facing adapter. It turns composed
// input decks and DosMain requests into submission descriptions (command
// line, stdin/stdout wiring, file copy and retrieve lists) and maps the
// extractor's failures onto a stable exit-code table after the run.
//
// The package does not launch processes. The scheduler integration consumes
// a CalcInfo and reports back the job directory; ParseOutputs then reads
// the retrieved files.
package calcjob
