// Package cli is the interactive GophDiary terminal client.
//
// App wires configuration, the local metadata store, the auth gateway, the
// entry store client and the services, then runs a REPL on top of them:
//
//	login [token] | logout | whoami
//	list | add [text] | delete <id> | import <source>
//	theme [light|dark] | help | exit
//
// The REPL is started by App.Run, which blocks until the user leaves.
// cmd/client also calls the command methods directly for one-shot use.
package cli
