//go:build !release

package command

// selfCheck makes NewRegistry reject duplicate names
const selfCheck = true
