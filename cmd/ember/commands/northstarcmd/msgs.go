package northstarcmd

// Message constants
const (
	MsgShort = "Install and manage the Northstar client itself"
	MsgLong  = `Install the Northstar client into the Titanfall 2 directory. The game
directory comes from the config when set, otherwise ember probes the Steam
libraries for it.`

	MsgExample = `  # Install the latest Northstar release
  ember northstar install

  # Install a specific release
  ember northstar install 1.12.0

  # Show where Titanfall 2 was found
  ember northstar find-game`
)
