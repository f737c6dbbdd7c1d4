// Package config loads and merges pocketsync configuration from three
// sources, in priority order: environment variables, command-line flags, and
// an optional JSON file. Built-in defaults fill whatever the sources leave
// unset. Merging is performed with mergo, so a higher-priority source only
// yields to a lower one where it provided no value at all.
package config
