// Command mkfs builds a flat Nachos-style disk image: a fresh
// fs.Format'd file system sized to hold a fixed number of sectors, with
// a list of host files copied in as top-level entries (spec §9's flat
// directory — there is no subdirectory structure to replicate).
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"nachos/fs"
	"nachos/ustr"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <image> <sectors> [file...]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	args := flag.Args()
	if len(args) < 2 {
		flag.Usage()
		os.Exit(1)
	}
	image := args[0]
	sectors := atoiOrDie(args[1])

	disk, err := fs.CreateFileDisk(image, sectors)
	if err != nil {
		log.Fatalf("mkfs: %v", err)
	}
	defer disk.Close()

	fsys := fs.Format(disk)
	for _, path := range args[2:] {
		if errc := addFile(fsys, path); errc != 0 {
			log.Fatalf("mkfs: %s: error %d", path, errc)
		}
	}
}

func addFile(fsys *fs.FileSystem_t, hostPath string) int {
	name := ustr.Ustr(baseName(hostPath))
	data, err := os.ReadFile(hostPath)
	if err != nil {
		log.Fatalf("mkfs: reading %s: %v", hostPath, err)
	}
	if errc := fsys.Create(name); errc != 0 {
		return int(errc)
	}
	h, errc := fsys.Open(name)
	if errc != 0 {
		return int(errc)
	}
	defer h.Close()
	if len(data) > 0 {
		if _, errc := h.WriteAt(data, 0); errc != 0 {
			return int(errc)
		}
	}
	return 0
}

// baseName strips any host directory components, since the target
// directory is flat.
func baseName(p string) string {
	for i := len(p) - 1; i >= 0; i-- {
		if p[i] == '/' {
			return p[i+1:]
		}
	}
	return p
}

func atoiOrDie(s string) int {
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			flag.Usage()
			os.Exit(1)
		}
		n = n*10 + int(c-'0')
	}
	if n <= 0 {
		flag.Usage()
		os.Exit(1)
	}
	return n
}
