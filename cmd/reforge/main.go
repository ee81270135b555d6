// Package main provides the reforge command.
//
// reforge compiles a YAML rule file and evaluates it against JSON or YAML
// source documents:
//
//	reforge -rules rules.yaml -input orders.json -pretty
//
// A top-level array in the input is evaluated as a batch sharing one set of
// memo caches. Settings may also come from REFORGE_* variables or a .env file.
package main

import (
	"fmt"
	"os"

	"github.com/eizengan/reforge/internal/config"
)

func main() {
	env, err := config.Environment(".env")
	if err != nil {
		fmt.Fprintln(os.Stderr, "reforge:", err)
		os.Exit(2)
	}

	if err := run(os.Args[1:], env, os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "reforge:", err)
		os.Exit(1)
	}
}
