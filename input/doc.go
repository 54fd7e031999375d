// Package input composes OpenMX input decks. A composition merges the
// caller's keyword mapping with keywords derived from the structure and
// species records, validates the result against the keyword table, and
// serializes it deterministically in table order together with the staging
// manifests for the pseudopotential and orbital files the run needs on disk.
//
// Composition is pure: the same inputs always produce byte-identical text,
// and the caller's maps and structure are never mutated.
package input
