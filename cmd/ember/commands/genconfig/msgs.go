package genconfig

// Message constants
const (
	MsgShort = "Generate a configuration file from the effective settings"
	MsgLong  = `Render the effective configuration (defaults, config file and environment
merged) as a TOML document. With -w, write it to the default config file
location instead of stdout; an existing file is never overwritten.`

	MsgExample = `  ember gen-config            # Print to stdout
  ember gen-config -w          # Write to the config directory`
)
