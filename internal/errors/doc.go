// Package errors provides the structured error type shared by the arena
// engine, its repositories and its orchestrators.
//
// Every error carries a Code. Battle rule failures use the four violation
// aliases declared in codes.go:
//
//	StateViolation         room or warrior is not in the required state
//	AuthorizationViolation caller is not the owner, creator, participant or admin
//	ValidationViolation    malformed input (bad concepts, bad name, answered slot)
//	ResourceUnavailable    warrior on cooldown or defeated, room full
//
// Rule failures are also tagged with a stable reason so callers and tests
// can tell apart failures that share a code:
//
//	err := errors.FailedPrecondition("player already signalled ready").
//	    WithReason("already_ready").
//	    WithMeta("player", player)
//
//	if errors.GetReason(err) == "already_ready" {
//	    // ...
//	}
//
// Repository layer:
//   - Return NotFound and AlreadyExists for record lookups
//   - Wrap redis and sql failures with Wrap/Wrapf (code Internal)
//
// Engine and orchestrator layer:
//   - Validate inputs with the ValidationBuilder
//   - Return the violation codes above for rule failures
//   - Wrap repository errors with business context, keeping the code
package errors
