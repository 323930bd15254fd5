package goctl

import "errors"

var (
	// ErrConfigRead reports a configuration document that cannot be read.
	ErrConfigRead = errors.New("cannot read configuration document")
	// ErrConfigParse reports a configuration document that cannot be parsed.
	ErrConfigParse = errors.New("cannot parse configuration document")
	// ErrBackup reports a failed backup copy before an in-place update.
	ErrBackup = errors.New("cannot back up configuration document")
	// ErrWrite reports a failed write of the merged document.
	ErrWrite = errors.New("cannot write configuration document")
)
