// Package cli provides the command-line interface for map-translate. It
// wires cobra commands to the translator, the map pipeline and the MCP
// server, and loads settings through viper.
package cli
