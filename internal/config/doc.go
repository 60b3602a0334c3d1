// Package config loads, normalizes, and validates podbridge configuration.
//
// Configuration lives in a TOML file (default ~/.config/podbridge/config.toml)
// and covers paths, logging, session tuning (command queue capacity, tap
// timeout, publish retries), playback skip intervals, advertised media
// controls, and the device capability profile. Load returns a fully expanded
// and validated Config; Default supplies the repository defaults used when no
// file exists.
package config
