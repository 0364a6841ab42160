package cachecmd

// Message constants
const (
	MsgShort = "Manage the download cache"
	MsgLong  = `Inspect or clear the archive download cache. Archives are kept after
install so reinstalling the same version needs no network.`

	MsgExample = `  ember cache dir
  ember cache clear`
)
