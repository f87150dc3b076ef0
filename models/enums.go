package models

// All workflow enums are stored as small integers. The codes are stable and
// must never be reordered; labels are for display only and must not be used
// in comparisons.

// FormState is the lifecycle state of a result form.
type FormState int

const (
	FormStateArchived FormState = iota
	// FormStateArchiving is kept for compatibility with old databases; new
	// transitions go straight from QUALITY_CONTROL to ARCHIVED.
	FormStateArchiving
	FormStateAudit
	FormStateClearance
	FormStateCorrection
	FormStateDataEntry1
	FormStateDataEntry2
	FormStateIntake
	FormStateQualityControl
	FormStateUnsubmitted
)

var formStateNames = map[FormState]string{
	FormStateArchived:       "Archived",
	FormStateArchiving:      "Archiving",
	FormStateAudit:          "Audit",
	FormStateClearance:      "Clearance",
	FormStateCorrection:     "Correction",
	FormStateDataEntry1:     "Data Entry 1",
	FormStateDataEntry2:     "Data Entry 2",
	FormStateIntake:         "Intake",
	FormStateQualityControl: "Quality Control",
	FormStateUnsubmitted:    "Unsubmitted",
}

func (s FormState) String() string {
	if name, ok := formStateNames[s]; ok {
		return name
	}
	return "Unknown"
}

// Valid reports whether s is one of the enumerated states.
func (s FormState) Valid() bool {
	_, ok := formStateNames[s]
	return ok
}

// EntryVersion identifies which transcription pass produced a row.
type EntryVersion int

const (
	EntryVersionDataEntry1 EntryVersion = iota
	EntryVersionDataEntry2
	EntryVersionFinal
)

func (v EntryVersion) String() string {
	switch v {
	case EntryVersionDataEntry1:
		return "Data Entry 1"
	case EntryVersionDataEntry2:
		return "Data Entry 2"
	case EntryVersionFinal:
		return "Final"
	}
	return "Unknown"
}

// Gender of a station's voter roll.
type Gender int

const (
	GenderFemale Gender = iota
	GenderMale
	GenderUnisex
)

func (g Gender) String() string {
	switch g {
	case GenderFemale:
		return "Female"
	case GenderMale:
		return "Male"
	case GenderUnisex:
		return "Unisex"
	}
	return "Unknown"
}

// RaceType of a ballot's contest.
type RaceType int

const (
	RaceTypeGeneral RaceType = iota
	RaceTypeWomen
	RaceTypePresidential
	RaceTypeComponent
)

func (r RaceType) String() string {
	switch r {
	case RaceTypeGeneral:
		return "General"
	case RaceTypeWomen:
		return "Women"
	case RaceTypePresidential:
		return "Presidential"
	case RaceTypeComponent:
		return "Component"
	}
	return "Unknown"
}

// CenterType distinguishes ordinary centers from special ones.
type CenterType int

const (
	CenterTypeGeneral CenterType = iota
	CenterTypeSpecial
	CenterTypeOval
)

// ActionsPrior records what the review team asked for before a
// recommendation could be made.
type ActionsPrior int

const (
	ActionsPriorRequestCopyFromField ActionsPrior = iota
	ActionsPriorRequestAuditActionFromField
	ActionsPriorPendingAdvice
	ActionsPriorNoneRequired
	ActionsPriorEmpty
)

// AuditResolution is the supervisor's decision on an audited form.
type AuditResolution int

const (
	AuditResolutionEmpty AuditResolution = iota
	AuditResolutionNoProblemToDE1
	AuditResolutionClarifiedFiguresToDE1
	AuditResolutionOtherCorrectionToDE1
	AuditResolutionMakeAvailableForArchive
	AuditResolutionSendToClearance
)

func (r AuditResolution) String() string {
	switch r {
	case AuditResolutionEmpty:
		return "----"
	case AuditResolutionNoProblemToDE1:
		return "No Problem To Data Entry 1"
	case AuditResolutionClarifiedFiguresToDE1:
		return "Clarified Figures To Data Entry 1"
	case AuditResolutionOtherCorrectionToDE1:
		return "Other Correction To Data Entry 1"
	case AuditResolutionMakeAvailableForArchive:
		return "Make Available For Archive"
	case AuditResolutionSendToClearance:
		return "Send To Clearance"
	}
	return "Unknown"
}

// ClearanceResolution is the supervisor's decision on a cleared form.
type ClearanceResolution int

const (
	ClearanceResolutionEmpty ClearanceResolution = iota
	ClearanceResolutionPendingFieldInput
	ClearanceResolutionPassToAdministrator
	ClearanceResolutionResetToPreintake
)

func (r ClearanceResolution) String() string {
	switch r {
	case ClearanceResolutionEmpty:
		return "----"
	case ClearanceResolutionPendingFieldInput:
		return "Pending Field Input"
	case ClearanceResolutionPassToAdministrator:
		return "Pass To Administrator"
	case ClearanceResolutionResetToPreintake:
		return "Reset To Preintake"
	}
	return "Unknown"
}

// RequestType of a workflow request.
type RequestType int

const (
	RequestTypeRecallFromArchive RequestType = iota
	RequestTypeSendToClearance
)

// RequestStatus of a workflow request.
type RequestStatus int

const (
	RequestStatusPending RequestStatus = iota
	RequestStatusApproved
	RequestStatusRejected
)

// RequestReason an authorized clerk gives when initiating a request.
type RequestReason int

const (
	RequestReasonIncorrectArchive RequestReason = iota
	RequestReasonDataEntryError
	RequestReasonClearanceNeeded
	RequestReasonOther
)
