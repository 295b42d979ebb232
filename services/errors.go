package services

import "errors"

// Shared errors used across services and the HTTP error mapping.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Validation and business rules
	ErrTitleRequired          = errors.New("tournament title is required")
	ErrInvalidMode            = errors.New("invalid scoring mode")
	ErrInvalidPhase           = errors.New("invalid tournament phase")
	ErrInvalidPhaseTransition = errors.New("invalid tournament phase transition")
	ErrNameRequired           = errors.New("participant name is required")
	ErrRosterFull             = errors.New("tournament roster is full")
	ErrRosterTooSmall         = errors.New("at least two participants are required")
	ErrSettingsLocked         = errors.New("settings can only be changed in the settings phase")
	ErrRosterLocked           = errors.New("participants can only be changed in the registration phase")
	ErrResultsLocked          = errors.New("results can only be entered in the match phase")
	ErrSelfMatch              = errors.New("a participant cannot play against themselves")

	// Entity-specific
	ErrTournamentNotFound  = errors.New("tournament not found")
	ErrParticipantNotFound = errors.New("participant not found")

	// Export
	ErrExportUnavailable = errors.New("image export is not configured")
	ErrEmptyImage        = errors.New("image payload is empty")
)
