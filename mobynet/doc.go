/*
Package mobynet discovers the network addresses reachable from a particular
Docker container via the networks attached to it, using the Docker API.
*/
package mobynet
