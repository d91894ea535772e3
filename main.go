package main

import (
	"log"

	"github.com/hireloop/screener/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
