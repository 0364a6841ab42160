package enable

// Message constants
const (
	MsgShort = "Enable disabled submod(s)"
	MsgLong  = `Move a disabled submod out of the .disabled folder back into the mods
directory so the game loads it again.`

	MsgExample = `  ember enable Fifty.ServerUtilities`
)
