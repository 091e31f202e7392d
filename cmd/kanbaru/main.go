// Command kanbaru manages kanban boards stored in a local database file.
package main

import (
	"os"

	"github.com/mesh-intelligence/kanbaru/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
