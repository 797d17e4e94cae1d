// nosetenv checks that tests never mutate the process environment.
//
//	go run ./cmd/nosetenv ./...
package main

import (
	"golang.org/x/tools/go/analysis/singlechecker"

	"github.com/HarishchandraChaudhary/ai-email-sender/internal/lint/nosetenv"
)

func main() {
	singlechecker.Main(nosetenv.Analyzer)
}
