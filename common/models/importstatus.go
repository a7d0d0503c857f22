package models

type ImportStatus string

const (
	IMPORT_IDLE    ImportStatus = ""
	IMPORT_PENDING ImportStatus = "PENDING"
	IMPORT_SUCCESS ImportStatus = "SUCCESS"
	IMPORT_FAILED  ImportStatus = "FAILED"
)

var KnownImportStatuses = []ImportStatus{IMPORT_PENDING, IMPORT_SUCCESS, IMPORT_FAILED}

/**
maps a status string from the wire onto an ImportStatus.
anything that is not exactly one of the known values comes back as IMPORT_IDLE
*/
func ParseImportStatus(from string) ImportStatus {
	candidate := ImportStatus(from)
	for _, s := range KnownImportStatuses {
		if s == candidate {
			return s
		}
	}
	return IMPORT_IDLE
}

func (s ImportStatus) IsTerminal() bool {
	return s == IMPORT_SUCCESS || s == IMPORT_FAILED
}

func (s ImportStatus) String() string {
	if s == IMPORT_IDLE {
		return "IDLE"
	}
	return string(s)
}
