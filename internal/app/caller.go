package app

// Caller is the identity resolved from a request's bearer token. Workflows
// receive it explicitly; nil means the request is anonymous.
type Caller struct {
	UserID   uint
	Username string
}
