// Package config loads and saves reflow.json, the project configuration
// for the reflow CLI and development server.
package config
