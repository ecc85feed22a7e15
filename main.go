package main

import (
	"log"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}
