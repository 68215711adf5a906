package errors

// MetaReason is the metadata key holding a Reason
const MetaReason = "reason"

// Reason narrows a code down to the game rule that was violated
type Reason string

// Game reasons
const (
	ReasonSessionNotFound    Reason = "session_not_found"
	ReasonSessionExists      Reason = "session_exists"
	ReasonSessionBusy        Reason = "session_busy"
	ReasonRateLimited        Reason = "rate_limited"
	ReasonGameOver           Reason = "game_over"
	ReasonInvalidTarget      Reason = "invalid_target"
	ReasonAbilityUnavailable Reason = "ability_unavailable"
	ReasonItemUnavailable    Reason = "item_unavailable"
)

// String returns the string representation of the reason
func (r Reason) String() string {
	return string(r)
}

// SessionNotFound reports a missing (namespace, name) session
func SessionNotFound(namespace, name string) *Error {
	return NotFoundf("dungeon %s/%s not found", namespace, name).
		WithReason(ReasonSessionNotFound).
		WithMeta("namespace", namespace).
		WithMeta("name", name)
}

// SessionExists reports a create for a key that is already registered
func SessionExists(namespace, name string) *Error {
	return AlreadyExistsf("dungeon %s/%s already exists", namespace, name).
		WithReason(ReasonSessionExists).
		WithMeta("namespace", namespace).
		WithMeta("name", name)
}

// SessionBusy reports that another command held the session lock for too long
func SessionBusy(namespace, name string) *Error {
	return Abortedf("dungeon %s/%s is resolving another command", namespace, name).
		WithReason(ReasonSessionBusy).
		WithMeta("namespace", namespace).
		WithMeta("name", name)
}

// RateLimited reports a command that arrived too soon after the previous one
func RateLimited(namespace, name string) *Error {
	return ResourceExhaustedf("dungeon %s/%s: rate limit exceeded, try again shortly", namespace, name).
		WithReason(ReasonRateLimited).
		WithMeta("namespace", namespace).
		WithMeta("name", name)
}

// GameOver reports a mutation attempted after victory or defeat
func GameOver(message string) *Error {
	return FailedPrecondition(message).WithReason(ReasonGameOver)
}

// InvalidTargetf reports a dead, locked, or unknown target
func InvalidTargetf(format string, args ...interface{}) *Error {
	return InvalidArgumentf(format, args...).WithReason(ReasonInvalidTarget)
}

// AbilityUnavailablef reports a wrong-class, unaffordable, or cooling-down ability
func AbilityUnavailablef(format string, args ...interface{}) *Error {
	return FailedPreconditionf(format, args...).WithReason(ReasonAbilityUnavailable)
}

// ItemUnavailablef reports an item that is not held or cannot be used that way
func ItemUnavailablef(format string, args ...interface{}) *Error {
	return FailedPreconditionf(format, args...).WithReason(ReasonItemUnavailable)
}
