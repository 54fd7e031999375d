// Package openmx composes input decks for the OpenMX electronic-structure
// code, validates them against a versioned keyword schema, and parses the
// textual reports OpenMX and its DosMain post-processor write back.
//
// The package tree splits along the two data flows:
//
//   - schema/ and input/ build input decks: a caller-supplied keyword mapping
//     is normalized, merged with keywords derived from the structure and
//     species data, validated against the keyword table, and serialized
//     deterministically in table order.
//   - report/ and dos/ turn report text back into structured records with a
//     single forward scan over marker-delimited sections.
//
// calcjob/ exposes the adapter surface a workflow orchestrator drives:
// process specifications, submission preparation, and output parsing with a
// closed set of exit codes.
//
// Design policy:
//   - Keep only shared concerns in the root package: the Issue/Issues
//     validation error model, the post-run error taxonomy, and physical unit
//     conversions.
//   - Composition and extraction are pure, single-pass transformations; the
//     hosting orchestrator owns process lifetime, retries, and walltime.
//   - Prefer black-box testing against public APIs.
package openmx
