package main

import (
	"flag"
	"log"

	"strukscan/process/rescan"
)

func main() {
	dir := flag.String("dir", "public/receipts", "directory of receipt images to rescan")
	dry := flag.Bool("dry-run", false, "print proposed changes without writing")
	minConf := flag.Float64("min-conf", 0.5, "minimum confidence required to apply an update")
	flag.Parse()

	if err := rescan.Run(*dir, *dry, *minConf); err != nil {
		log.Fatalf("rescan failed: %v", err)
	}
}
