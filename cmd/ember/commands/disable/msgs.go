package disable

// Message constants
const (
	MsgShort = "Disable installed submod(s) without uninstalling"
	MsgLong  = `Move a submod into the .disabled folder inside the mods directory. The
game stops loading it, but its files stay on disk and survive updates.`

	MsgExample = `  ember disable Fifty.ServerUtilities`
)
