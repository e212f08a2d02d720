// Package config loads process configuration from the environment and the
// overlay shell's preference file.
//
// Environment variables follow 12-factor conventions and are parsed with
// envconfig; every field has a default so an empty environment is valid.
// Window sizing and timing policy (default box, landscape ratios, bubble
// stack constants, resize debounce) lives here rather than in the window
// manager so it can be tuned per device.
//
// Shell preferences (edge side, handle size and offset, pinned apps) are read
// from an optional YAML or TOML file named by SHELL_PREFS.
package config
