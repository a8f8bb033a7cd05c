package parse

// ExtractError reports balance output that resolved to no usable account data.
type ExtractError struct {
	Reason string
}

func (e ExtractError) Error() string {
	return e.Reason
}

// errNoAccounts is the one extraction failure the balance extractor produces.
func errNoAccounts() error {
	return ExtractError{Reason: "no accounts found"}
}
