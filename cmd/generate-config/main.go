// Command generate-config writes the default configuration file.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/technoflash/technoflash/internal/config"
	"gopkg.in/yaml.v3"
)

func main() {
	out := flag.String("out", "config.yaml", "Path to write the configuration to (- for stdout)")
	flag.Parse()

	cfg := &config.Config{}
	config.ApplyDefaults(cfg)

	data, err := yaml.Marshal(cfg)
	if err != nil {
		log.Fatalf("Error marshaling config: %v", err)
	}

	if *out == "-" {
		os.Stdout.Write(data)
		return
	}

	if err := os.WriteFile(*out, data, 0o644); err != nil {
		log.Fatalf("Error writing config file: %v", err)
	}
	log.Printf("Wrote default configuration to %s", *out)
}
