// Package config provides configuration management for launchpad.
//
// Configuration is layered. Later layers override earlier ones, key by key:
//
//  1. Default configuration (GetDefaultConfig)
//  2. User configuration (~/.config/launchpad/config.yaml)
//  3. Project configuration (./.launchpad/config.yaml)
//
// LoadConfigFromPath replaces layers 2 and 3 with a single explicit directory.
//
// # Configuration Structure
//
//	vectorStore:
//	  engine: docker
//	  containerName: canvaintel-qdrant
//	  hostPort: 6333
//	  readyAttempts: 20
//	  readyInterval: 500ms
//	backend:
//	  port: 3001
//	  defaultEnv:
//	    OLLAMA_BASE_URL: http://localhost:11434
//	bundle:
//	  archive: node_modules.zip
//	  destination: backend/node_modules
//	statusServer:
//	  port: 8095
//
// The package also parses the backend override file (see ParseOverrides), a
// plain KEY=VALUE file read from the backend working directory at launch.
package config
