package main

import (
	"log"

	"github.com/jtarasov/rolefit/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
