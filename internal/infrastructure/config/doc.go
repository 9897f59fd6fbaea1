// Package config handles loading and validating EcoBuild Core configuration.
//
// This package manages:
//   - Loading configuration from YAML files
//   - Loading an optional .env file
//   - Overriding with environment variables
//   - Validation of required fields
//
// Security Considerations:
//   - The language model API key and JWT secret should be set via environment variables
//   - The config file should have restricted permissions (0600)
//
// Usage:
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.AI.Model)
package config
