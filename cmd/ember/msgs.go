package ember

// Message constants
const (
	MsgRootShort = "A mod manager for the Northstar modding framework"
	MsgRootLong  = `ember installs, updates and manages Titanfall 2 mods from the Northstar
Thunderstore. It keeps a local index of what is installed, caches downloaded
archives, and preserves your enabled/disabled choices across updates.`

	MsgFlagVerbose = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig  = "Config file (default is $XDG_CONFIG_HOME/ember/ember.toml)"
)
