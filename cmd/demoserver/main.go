// Command demoserver starts a fixture storefront for demonstrating audits.
// Usage: go run ./cmd/demoserver [port]
// Default port: 9999
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/glowstarlabs/alttext-audit/internal/demoserver"
)

func main() {
	cfg := demoserver.DefaultConfig()

	// Optional: custom port from command line
	if len(os.Args) > 1 {
		port, err := strconv.Atoi(os.Args[1])
		if err != nil || port < 1 || port > 65535 {
			log.Fatalf("Invalid port: %s", os.Args[1])
		}
		cfg.Port = port
	}

	fmt.Println("===========================================")
	fmt.Println("   AltText Audit - Demo Storefront")
	fmt.Println("===========================================")
	fmt.Println()
	fmt.Println("This server serves a small storefront whose pages exist in")
	fmt.Println("two versions: version 1 is full of alt text defects, version")
	fmt.Println("2 is remediated. Audit it, bump the versions, audit again,")
	fmt.Println("and compare the reports or diff the page snapshots.")
	fmt.Println()
	fmt.Println("Defects in version 1:")
	fmt.Println("  - Missing, empty, and generic alt attributes")
	fmt.Println("  - Filename and all-caps alt text")
	fmt.Println("  - Unlabeled SVG, image input, and image map area")
	fmt.Println("  - Missing lang, skip link, and zoom-blocking viewport")
	fmt.Println()

	server := demoserver.NewDemoServer(cfg)
	if err := server.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
