package service

import "errors"

// Invalid input. Rejected before any storage access.
var (
	ErrInvalidUserID   = errors.New("user id must be a strictly positive integer")
	ErrInvalidModuleID = errors.New("module id must be a strictly positive integer")
	ErrInvalidRank     = errors.New("rank must be zero or a positive integer")
	ErrEmptyModuleName = errors.New("module name cannot be empty")
	ErrInvalidFlag     = errors.New("invalid flag")
	ErrInvalidFlagMode = errors.New("flag mode must be static or dynamic")
)

// Conflicts. Expected outcomes that callers must handle.
var (
	ErrAlreadySolved       = errors.New("module already solved")
	ErrDuplicateModuleName = errors.New("module name already exists")
	ErrFlagModeAlreadySet  = errors.New("flag mode has already been set")
)

// Not found.
var (
	ErrModuleNotFound    = errors.New("module not found")
	ErrFlagNotConfigured = errors.New("module has no flag configured")
)

// Configuration failures. Fatal at startup.
var (
	ErrServerKeyMalformed = errors.New("server key is malformed")
	ErrServerKeyPinned    = errors.New("server key is set by configuration and cannot be refreshed")
)
