package uninstall

// Message constants
const (
	MsgShort = "Remove installed mod(s)"
	MsgLong  = `Remove one or more installed mods: their directories (disabled submods
included) are deleted and their index records dropped. A mod that fails to
remove does not stop the rest of the batch.`

	MsgExample = `  ember uninstall Server_Utilities
  ember uninstall Server_Utilities Archon`
)
