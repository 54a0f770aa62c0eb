// Package rebalance implements the priority rebalancing engine for
// requirement sets ranked on the 0-255 scale.
//
// The engine keeps priorities well distributed, resolves collisions
// when two requirements want the same value, and supports range-limited
// rebalancing so local changes do not disturb unrelated requirements.
//
// # Operations
//
//   - Redistribute: spread every priority evenly across [0,255]
//   - Compress: scale every priority by a factor in (0,1)
//   - Normalize: map the current [min,max] onto a target range
//   - FindGap: locate the best free slot near a desired value
//   - ResolveCollision: search outward for the nearest unused value
//   - HandleMaxConflict: cascade holders of 255 down to admit a new top entry
//   - AutoCascade: redistribute only requirements at or above a threshold
//   - RebalanceRange: redistribute only requirements inside a window
//   - BatchInsert: insert a set of requirements, then clean up collisions
//
// # Invariants
//
//   - After any successful operation every priority lies inside the
//     operation's target range.
//   - Redistribution, normalization, and compression are order
//     preserving: a requirement ranked above another never ends up
//     ranked below it.
//   - Mutations happen inside a single repository transaction. A failed
//     write rolls back the whole operation; readers never observe a
//     partially applied rebalance.
//
// The engine performs no concurrency of its own. It assumes one
// rebalancing operation at a time; isolation against concurrent
// external writers is whatever the underlying store's transaction
// mechanism provides.
//
// ResolveCollision may fall back to a full redistribution when all 256
// values are taken. That fallback mutates every requirement, not just
// the one being resolved - callers must expect the wide blast radius.
package rebalance
