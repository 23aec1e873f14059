// Package config loads runtime configuration for the notes CLI.
//
// Sources, lowest precedence first: built-in defaults, an optional JSON file
// selected with -c or -config, then short command-line flags.
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "keystore_path": "/home/me/.notes/wallet.json",
//	  "identity_secret": "notes-app",
//	  "share_base_url": "https://notes.example.com",
//	  "request_timeout": "10s",
//	  "online_check_interval": "5s"
//	}
package config
