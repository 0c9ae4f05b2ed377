// Package config handles loading and validation of shelf configuration.
//
// Configuration is read from a YAML file. Files ending in .toml are decoded
// as TOML with the same schema.
//
// # Location (first match wins)
//
//   - an explicit path given on the command line
//   - $XDG_CONFIG_HOME/shelf/shelf.yml
//   - $HOME/.config/shelf/shelf.yml
//
// # Schema
//
//	projects:
//	  - root: ~/src
//	    exclude: ["/node_modules$"]
//	    title: Local
//	    extract: src/(.*)
//	    recurse: false
//	directories:
//	  - path: ~/notes
//	    label: Notes
//
// Each project group is scanned for git repositories; extract must contain
// one capture group that yields the displayed title. Directories are offered
// as-is without scanning.
package config
