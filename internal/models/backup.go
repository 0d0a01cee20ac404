package models

// BackupEntry is one point-in-time snapshot in the backup ring.
type BackupEntry struct {
	Timestamp int64 `json:"timestamp"`
	Snapshot  State `json:"snapshot"`
}

// ExportDocument is the full export file. Import also accepts the same
// document without ExportedAt/AppVersion, and a bare State.
type ExportDocument struct {
	Data       *State    `json:"data"`
	Settings   *Settings `json:"settings,omitempty"`
	ExportedAt string    `json:"exportedAt,omitempty"`
	AppVersion string    `json:"appVersion,omitempty"`
}
