// Package schema holds the versioned OpenMX keyword table and validates
// keyword mappings against it.
//
// Values are tagged with a sealed ValueKind once at ingestion (Normalize), so
// downstream validation switches on a closed tag set instead of an open-ended
// battery of runtime type tests. Keys are case-folded at the same point, with
// a hard failure when two differently-cased keys collapse together.
package schema
