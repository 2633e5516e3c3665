package models

// Report is a result file tied to a collection request and a patient.
// Append-only once created; stored as binary data in the database.
type Report struct {
	BaseModel
	RequestID  string `gorm:"size:36;index;not null" json:"requestId"`
	PatientID  string `gorm:"size:36;index" json:"patientId"`
	UploadedBy string `gorm:"size:36;not null" json:"uploadedBy"`
	FileName   string `gorm:"not null" json:"fileName"`
	FileType   string `gorm:"not null" json:"fileType"`                // MIME type of the file
	FileData   []byte `gorm:"type:longblob;not null" json:"-"`        // File content as binary data (longblob for MySQL)

	Request HomeCollectionRequest `gorm:"foreignKey:RequestID" json:"-"`
}
