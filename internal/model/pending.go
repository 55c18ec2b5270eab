package model

// PendingCaseDraft : черновик заявки мастера подачи.
// Живёт только в состоянии клиентской сессии, очищается после
// успешного finalize или ассоциации.
type PendingCaseDraft struct {
	ServiceID string             `json:"service_id"`
	CaseType  string             `json:"case_type"`
	Files     []PendingFileEntry `json:"files"`
}

type PendingFileEntry struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Uploaded bool   `json:"uploaded"`
}

// PendingFileSelection : выбранный, но ещё не загруженный в хранилище файл.
// Содержимое держится в памяти и не переживает перезагрузку.
type PendingFileSelection struct {
	ID       string
	Name     string
	FileType string
	Content  []byte
	CaseType string
}
