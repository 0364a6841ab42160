package install

// Message constants
const (
	MsgShort = "Install mod(s) from the Thunderstore catalog"
	MsgLong  = `Download and install one or more mods into the configured mods directory.

A bare package name installs the latest version. A full modstring
(author-name-X.Y.Z) pins an exact version. Dependencies are validated
against the catalog before anything is written; downloaded archives are
cached and reused.`

	MsgExample = `  # Install the latest version by name
  ember install Server_Utilities

  # Pin an exact version with a modstring
  ember install Fifty-Server_Utilities-1.4.2

  # Install several mods at once
  ember install Server_Utilities Archon`
)
