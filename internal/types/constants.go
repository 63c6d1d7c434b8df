package types

// ContextUserKey is the gin context key the auth middleware stores the
// authenticated identity under.
const ContextUserKey = "user"
