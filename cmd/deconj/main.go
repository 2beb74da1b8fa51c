// Command deconj lists the deconjugations of Japanese word forms and
// serves them over HTTP.
package main

import (
	"os"

	"github.com/hoverdict/deconj/internal/cli"
)

func main() {
	os.Exit(cli.ExitCode(cli.NewRootCommand().Execute()))
}
