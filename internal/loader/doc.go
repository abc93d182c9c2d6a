// Package loader drives a full export run: archives in, artifact out.
//
// Run processes one export end to end:
//
//  1. Resolve the output path and discover archives in load order
//     (modification time ascending - the oldest archive loads first).
//  2. Open the staging store, apply the synthesized schema, stamp the
//     meta table with the run identity.
//  3. Per archive: record provenance, then an entity pass and a relation
//     pass, each in its own transaction. The entity pass lands every
//     record's row before any join row is attempted, so member rows
//     never race their parents.
//  4. Check foreign keys over the staged data. Findings are reported,
//     never rolled back: dangling references are a fact of modded data.
//  5. Compact the staging store into the artifact, finalize it for
//     reads, drop the staging file.
//
// Failure handling is layered. A record that cannot be projected or
// inserted is logged and counted; the load continues. An archive that
// cannot be parsed is skipped whole, with no provenance row. Anything
// wrong with the stores themselves aborts the run.
//
// Duplicate keys fall out of load order: archives load oldest first and
// plain INSERT rejects the second write of a key, so the first-loaded
// archive wins and later duplicates surface as counted rejects.
package loader
