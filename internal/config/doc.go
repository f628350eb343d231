// Package config loads messenger-web configuration.
//
// Configuration lives in messenger.json (or messenger.yaml / messenger.yml)
// next to the binary or in the directory passed with --config. Every field is
// optional; New returns the defaults.
//
// # Configuration File Structure
//
//	{
//	  "name": "messenger",
//	  "title": "Messenger",
//	  "lang": "ru",
//	  "server": {
//	    "host": "0.0.0.0",
//	    "port": 8080,
//	    "readTimeout": "10s",
//	    "writeTimeout": "10s",
//	    "shutdownTimeout": "15s"
//	  },
//	  "static": {"dir": "public", "prefix": "/assets/"},
//	  "views": {
//	    "source": "s3",
//	    "s3": {"bucket": "messenger-views", "prefix": "v1/", "region": "eu-central-1"}
//	  },
//	  "metrics": {"enabled": true, "address": ":9090"},
//	  "tracing": {"enabled": false},
//	  "log": {"level": "info", "format": "text"}
//	}
//
// YAML files are expanded with os.ExpandEnv before parsing, so secrets can be
// passed as ${VAR}.
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println("Listening on", cfg.Address())
package config
