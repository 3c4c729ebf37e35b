package auth

// Known OAuth scopes used by the import service.
const (
	ScopeImportsWrite = "imports:write"
	ScopeImportsRead  = "imports:read"
)
