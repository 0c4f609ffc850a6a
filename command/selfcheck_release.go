//go:build release

package command

const selfCheck = false
