// Command ringsense analyses MDL SD files: ring perception, ring systems,
// and aromaticity, per molecule.
package main

import "github.com/turtacn/RingSense/internal/interfaces/cli"

func main() {
	cli.Execute()
}
