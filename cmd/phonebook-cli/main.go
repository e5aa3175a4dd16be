// Command phonebook-cli lists or adds phonebook entries directly in a
// record store, without going through the HTTP service.
//
//	phonebook-cli <password>                  list every entry
//	phonebook-cli <password> <name> <number>  add one entry
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
