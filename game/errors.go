package game

const (
	ErrorInvalidShape       = "invalid %s: dimensions must be positive, got %v"
	ErrorUnknownKind        = "unknown entity kind %d"
	ErrorUnknownState       = "unknown state %q"
	ErrorDuplicateState     = "state %q registered twice"
	ErrorDuplicateEntity    = "entity %d is already in the world"
	ErrorInvalidGrid        = "grid bounds %v..%v with %v cells cannot be indexed"
	ErrorMissingDependency  = "%s requires a %s"
	ErrorInternalGridClient = "grid client linked in cell (%d, %d) it does not own"
)
