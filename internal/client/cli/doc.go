// Package cli provides the interactive Grudgekeeper command-line client.
//
// It wires configuration, the backend API client, and an interactive REPL.
// Typical flow: register or log in, then manage the enemies list with
// list/add/update/delete, uploading avatar images along the way.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
