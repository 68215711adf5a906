// Package errors provides the structured error type shared by every layer of
// the dungeon engine.
//
// Errors carry a transport-neutral Code, a user-facing message, an optional
// cause, and metadata. Game rule violations additionally carry a Reason under
// the "reason" metadata key so callers can tell a dead target from a locked
// boss without parsing messages.
//
// # Basic Usage
//
//	err := errors.SessionNotFound("default", "crypt")
//	err := errors.InvalidTargetf("monster %d is already dead", idx)
//
// Wrapping keeps the code and metadata of the wrapped error:
//
//	if err := repo.Save(ctx, input); err != nil {
//	    return errors.Wrap(err, "failed to save dungeon")
//	}
//
// # Error Checking
//
//	if errors.IsGameOver(err) {
//	    // only reads remain valid
//	}
//
//	code := errors.GetCode(err)
//	reason := errors.GetReason(err)
//
// # Layer-Specific Guidelines
//
// Repository layer:
//   - Return NotFound for missing keys, wrap redis failures
//
// Engine and orchestrator layer:
//   - Reject invalid commands with a reasoned error before touching state
//   - Wrap repository errors with business context
//
// Handler layer:
//   - Convert with ToGRPCError, log only internal errors
package errors
