// Package workspace locates the root Cargo.toml of a workspace and resolves
// its member list, including "dir/*" entries, into concrete manifest paths.
package workspace
