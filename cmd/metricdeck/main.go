// cmd/metricdeck/main.go
package main

import (
	cmd "github.com/metricdeck/metricdeck/internal/cli"
)

// main starts the metricdeck CLI application by delegating to the
// cobra root command defined in the metricdeck package. It does not
// take any arguments and does not return a value.
func main() {
	cmd.Execute()
}
