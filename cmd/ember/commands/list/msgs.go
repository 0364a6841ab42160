package list

// Message constants
const (
	MsgShort = "List installed mods"
	MsgLong  = `Show every installed mod with its version and submods, flagging the ones
you disabled.`

	MsgExample = `  ember list`
)
