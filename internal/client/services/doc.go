// Package services contains the application services of the diary client.
// They sit between the terminal UI and the outside world: the auth gateway,
// the Remote Entry Store client, the import parser and the local store.
package services
