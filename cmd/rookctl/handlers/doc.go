// Package handlers implements the rookctl commands.
//
// Each exported function backs one cobra command. Collaborators are built
// through package level factory variables so tests can replace them.
package handlers
