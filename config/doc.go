/*
Package config loads the optional YAML configuration file of ptrdig, supplying
defaults for the CLI flags. A missing configuration file is not an error but
simply means default settings.

An example configuration file:

	jobs: 8
	resolver: dns
	backend: tasks
	server: 192.0.2.53:53
	timeout: 3s
*/
package config
