// Package cli provides the interactive gophmobile command-line client.
//
// It wires configuration, local storage, the authenticated API client,
// services, controllers and the notification manager, then runs a REPL.
// Typical flow: restore the previous session, optionally attach to the
// push channel, and execute user commands.
//
// Key features:
//   - Register / Login / Guest / Logout and the password reset flow
//   - Profile display and password change
//   - Notification list, read state and the enable/disable switch
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
