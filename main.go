// The main package for the seedwatch executable.
package main

import (
	"github.com/calebmartin/seedwatch/cmd"
)

func main() {
	cmd.Execute()
}
