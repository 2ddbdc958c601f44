// Package config provides configuration parsing for Vela projects.
//
// The configuration is stored in vela.json (or vela.yaml / vela.yml) at the
// project root. This package handles loading, saving, and validating it.
//
// # Configuration File Structure
//
//	{
//	  "server": {
//	    "host": "localhost",
//	    "port": 3000,
//	    "path": "/ws",
//	    "title": "Todo"
//	  },
//	  "metrics": {
//	    "enabled": true,
//	    "path": "/metrics",
//	    "namespace": "vela"
//	  },
//	  "log": {
//	    "level": "debug",
//	    "format": "json"
//	  },
//	  "app": {
//	    "demo": "todo",
//	    "maxQueue": 1024
//	  }
//	}
//
// The same structure in YAML:
//
//	server:
//	  port: 8080
//	app:
//	  demo: clock
//
// # Usage
//
//	cfg, err := config.LoadOrDefault(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Listening on", cfg.Address())
package config
