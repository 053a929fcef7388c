// Package calendar talks to the remote calendar service.
//
// The remote service is the system of record for event existence. Every
// lifecycle operation that touches remote state calls through the Gateway
// contract defined here, and the lifecycle manager only applies its local
// write after the remote call reports success.
package calendar
