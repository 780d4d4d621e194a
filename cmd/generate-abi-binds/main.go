// Command generate-abi-binds writes typed go-ethereum bindings for every ABI
// listed in a walletkit configuration file.
//
//	go run ./cmd/generate-abi-binds -config walletkit.yaml -out internal/bindings/bindings.go -pkg bindings
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/ethereum/go-ethereum/accounts/abi/abigen"
	"github.com/singnet/walletkit-go/pkg/config"
)

func main() {
	cfgPath := flag.String("config", "walletkit.yaml", "configuration file with an abis section")
	out := flag.String("out", filepath.Join("bindings", "bindings.go"), "output file, relative to the module root")
	pkg := flag.String("pkg", "bindings", "package name of the generated file")
	flag.Parse()

	cfg, err := config.LoadFile(*cfgPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if len(cfg.ABIs) == 0 {
		log.Fatalf("No ABIs found in %s", *cfgPath)
	}

	names := make([]string, 0, len(cfg.ABIs))
	for name := range cfg.ABIs {
		names = append(names, name)
	}
	sort.Strings(names)

	abis := make([]string, len(names))
	bytecodes := make([]string, len(names))
	for i, name := range names {
		abis[i] = string(cfg.ABIs[name])
	}

	bindContent, err := abigen.Bind(names, abis, bytecodes, nil, *pkg, nil, nil)
	if err != nil {
		log.Fatalf("Failed to generate binding: %v", err)
	}

	root, err := moduleRoot()
	if err != nil {
		log.Fatalf("Failed to locate module root: %v", err)
	}

	outPath := filepath.Join(root, *out)
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}
	if err := os.WriteFile(outPath, []byte(bindContent), 0o600); err != nil {
		log.Fatalf("Failed to write ABI binding: %v", err)
	}
	log.Printf("Wrote bindings for %d ABIs to %s", len(names), outPath)
}

func moduleRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, statErr := os.Stat(filepath.Join(dir, "go.mod")); statErr == nil {
			return dir, nil
		}
		next := filepath.Dir(dir)
		if next == dir {
			return "", fmt.Errorf("go.mod not found from %q", dir)
		}
		dir = next
	}
}
