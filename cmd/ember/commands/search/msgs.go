package search

// Message constants
const (
	MsgShort = "Search the Thunderstore catalog"
	MsgLong  = `Search the package catalog by name, author and description. Multiple terms
narrow the result; all of them must match.`

	MsgExample = `  ember search utilities
  ember search fifty server`
)
