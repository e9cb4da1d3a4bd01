// Package relationship covers the patient/provider care link, on chain and
// in the off-chain index. On chain a relationship grants the provider access
// and carries a viewer list; off chain a row links the two user ids.
package relationship

import "time"

// Relationship is an off-chain row linking a patient to a provider.
type Relationship struct {
	ID             int64     `json:"id"`
	PatientID      int64     `json:"patient_id"`
	ProviderID     int64     `json:"provider_id"`
	PatientWallet  string    `json:"patient_wallet"`
	ProviderWallet string    `json:"provider_wallet"`
	CreatedAt      time.Time `json:"created_at"`
}
