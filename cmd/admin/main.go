// Command admin provides maintenance utilities for Townsquare.
package main

import "townsquare/cmd/admin/commands"

func main() {
	commands.Execute()
}
