// Package commands defines the libforge CLI surface.
package commands
