// Command wikiparse runs the article normalization stages on a local file or
// stdin, without the HTTP server or page cache.
//
// Usage:
//
//	wikiparse clean article.md
//	wikiparse parse --format yaml article.md
//	curl -s https://example.org/Mars | wikiparse render --html --url https://example.org/Mars
//	wikiparse search tesla article.md
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
