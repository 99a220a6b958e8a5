// One-shot debug tool: scans a single receipt image and prints the parsed
// record as JSON.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"strukscan/pkg/receipt"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("usage: go run ./process/cmd_scan <image-path>")
		os.Exit(2)
	}
	pipe := receipt.NewPipeline(receipt.DefaultConfig())
	rec, err := pipe.Scan(os.Args[1])
	if err != nil {
		log.Fatalf("scan failed: %v", err)
	}
	out, _ := json.MarshalIndent(rec, "", "  ")
	fmt.Println(string(out))
}
