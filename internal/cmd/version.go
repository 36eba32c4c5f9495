package cmd

// AppName is the name of the executable.
const AppName = "mcp-server-pacman"

// version is set at build time using -ldflags.
var version = "dev"

// Version returns the version of the application.
func Version() string {
	return version
}
