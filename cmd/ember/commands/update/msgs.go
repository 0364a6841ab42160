package update

// Message constants
const (
	MsgShort = "Update installed mod(s) to the latest catalog version"
	MsgLong  = `With no arguments, update every installed mod whose version differs from
the catalog. With names, update just those mods. Submods you disabled stay
disabled across the update.`

	MsgExample = `  # Update everything that is outdated
  ember update

  # Update specific mods
  ember update Server_Utilities Archon`
)
