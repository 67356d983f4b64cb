package domain

import "errors"

var (
	// ErrSessionActive is returned when a user triggers while a quiz is
	// already running for them.
	ErrSessionActive = errors.New("session already active for user")
	// ErrRoleStateSatisfied means the user's roles already match the target.
	ErrRoleStateSatisfied = errors.New("role state already satisfies target")
	// ErrCooldownActive means the user failed recently and must wait.
	ErrCooldownActive = errors.New("cooldown active")
	// ErrBankEmpty indicates the question bank has no questions.
	ErrBankEmpty = errors.New("question bank is empty")
	// ErrBankNotFound indicates the question bank could not be loaded.
	ErrBankNotFound = errors.New("question bank not found")
	// ErrRoleForbidden is returned when the directory refuses a role read or
	// mutation for permission reasons.
	ErrRoleForbidden = errors.New("directory refused role operation")
	// ErrDirectoryUnavailable wraps transport failures talking to the
	// directory.
	ErrDirectoryUnavailable = errors.New("directory unreachable")
	// ErrBridgeUnavailable means no gateway bridge is connected to deliver
	// messages.
	ErrBridgeUnavailable = errors.New("no gateway bridge connected")
)
