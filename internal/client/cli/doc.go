// Package cli is the interactive notes client.
//
// App wires the store client, the keystore-backed wallet signer and the
// session connector, then runs a line-oriented REPL. A background watcher
// pings the store and shows online/offline in the prompt.
//
// Typical flow: wallet-init once, then connect, mkfolder, new, edit with
// name/content/tags, save, and share. Share links open with view and need
// no wallet.
package cli
