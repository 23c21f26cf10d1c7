// Command lexicon stores strings, analyzes their properties and serves
// filter queries over HTTP.
package main

import "github.com/mesh-intelligence/lexicon/internal/cli"

func main() {
	cli.Execute()
}
