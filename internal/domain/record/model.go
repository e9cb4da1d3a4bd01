// Package record handles medical records in both planes: on-chain entries
// keyed by patient and record id, and off-chain rows indexing the IPFS
// payloads by CID.
package record

import "time"

// Symbolic record type names accepted alongside the numeric u8 encoding.
const (
	TypeGeneral      = "general"
	TypeLab          = "lab"
	TypePrescription = "prescription"
	TypeImaging      = "imaging"
)

// StoredRecord is an off-chain row indexing one pinned file. ProviderID is
// nil when the upload named no provider.
type StoredRecord struct {
	ID         int64     `json:"id"`
	CID        string    `json:"cid"`
	FileURL    string    `json:"file_url"`
	PatientID  int64     `json:"patient_id"`
	ProviderID *int64    `json:"provider_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// UploadResult is the response to a file upload.
type UploadResult struct {
	CID     string        `json:"cid"`
	FileURL string        `json:"file_url"`
	Record  *StoredRecord `json:"record"`
}
