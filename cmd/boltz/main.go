// Package main provides the Boltz ML Toolkit CLI.
package main

import (
	"fmt"
	"os"

	"github.com/boltz-ml/boltz/analysis"
)

const version = "v0.0.1-dev"

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "version":
			fmt.Printf("Boltz ML Toolkit %s\n", version)
			return
		case "metrics":
			for _, m := range analysis.List() {
				fmt.Printf("  %-18s %-12s %-8s %s\n", m.Name, m.Category, m.Args, m.Title)
			}
			return
		}
	}

	fmt.Println("Boltz ML Toolkit - Boltzmann Machines for Go")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version    Show version")
	fmt.Println("  metrics    List registered analysis metrics")
	fmt.Println("")
	fmt.Println("Coming soon: train, evaluate")
}
