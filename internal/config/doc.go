// Package config manages user-level settings stored at ~/.scaffoldr/config.yaml,
// overridable with SCAFFOLDR_* environment variables (a .env file in the
// working directory is loaded first) and, in the CLI, with flags. It turns
// the resolved settings into generator run options and generator search
// sources.
package config
