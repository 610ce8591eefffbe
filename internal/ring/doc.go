// Package ring implements the storage and cursor engine shared by the
// sequential and concurrent ring buffer variants.
//
// The engine owns a fixed slice of slots plus two logical cursors and an
// available count. The count, not the cursors, decides full versus empty:
// when writePos == readPos the buffer is empty at available == 0 and full at
// available == len(items). Batch operations advance a cursor by n in a single
// modular step rather than by repeated unit increments.
//
// Batch reads come in two tiers. ReadInto consumes element by element and may
// leave the buffer partially drained when the sink fails mid-batch.
// SafeReadInto stages a snapshot first and commits the cursor advance only
// after every element reached the sink, so a failure leaves the buffer
// untouched.
package ring
