package model

import "time"

// Role identifies which dashboard and data a session may access.
type Role string

const (
	RolePatient  Role = "patient"
	RoleDoctor   Role = "doctor"
	RolePharmacy Role = "pharmacy"
	RoleHospital Role = "hospital"
)

// Valid reports whether r is one of the four known roles.
func (r Role) Valid() bool {
	switch r {
	case RolePatient, RoleDoctor, RolePharmacy, RoleHospital:
		return true
	}
	return false
}

// Session holds the identity state persisted for one logged-in client.
type Session struct {
	Role       Role   `json:"role"`
	Identity   string `json:"identity"`
	ProviderID string `json:"provider_id,omitempty"`
}

// Profile holds the editable account fields. Which fields apply depends on
// the role: patients carry age/gender/location, doctors carry
// experience/gender, pharmacies and hospitals only name and mobile.
type Profile struct {
	Role       Role   `json:"role"`
	Name       string `json:"name"`
	Mobile     string `json:"mobile"`
	Age        string `json:"age,omitempty"`
	Gender     string `json:"gender,omitempty"`
	Location   string `json:"location,omitempty"`
	Experience string `json:"experience,omitempty"`
}

// ConsultationType enumerates the accepted booking types.
type ConsultationType string

const (
	ConsultationGeneral   ConsultationType = "general"
	ConsultationEmergency ConsultationType = "emergency"
	ConsultationFollowUp  ConsultationType = "followup"
	ConsultationCheckup   ConsultationType = "checkup"
)

// ValidConsultationType reports whether t is one of the four accepted types.
func ValidConsultationType(t ConsultationType) bool {
	switch t {
	case ConsultationGeneral, ConsultationEmergency, ConsultationFollowUp, ConsultationCheckup:
		return true
	}
	return false
}

// ConsultationRequest is a patient's booking request against one provider.
type ConsultationRequest struct {
	ProviderIdentifier string           `json:"doctor_license_number"`
	PatientName        string           `json:"patient_name"`
	PatientContact     string           `json:"patient_contact"`
	Reason             string           `json:"reason"`
	Type               ConsultationType `json:"consultation_type"`
}

// Doctor is a bookable provider from the directory collaborator.
type Doctor struct {
	ID              string  `json:"id,omitempty"`
	Name            string  `json:"name"`
	Specialization  string  `json:"specialization"`
	Experience      int     `json:"experience"`
	Rating          float64 `json:"rating"`
	Contact         string  `json:"contact"`
	Email           string  `json:"email"`
	Location        string  `json:"location"`
	ConsultationFee float64 `json:"consultation_fee"`
	Availability    string  `json:"availability"`
	LicenseNumber   string  `json:"license_number"`
}

// QueueStatus is the lifecycle state of one queue entry.
type QueueStatus string

const (
	QueueWaiting    QueueStatus = "waiting"
	QueueInProgress QueueStatus = "in-progress"
	QueueCompleted  QueueStatus = "completed"
	QueueCancelled  QueueStatus = "cancelled"
)

// QueueEntry is the doctor-side view of one consultation.
type QueueEntry struct {
	ID          string      `json:"id"`
	PatientName string      `json:"patient_name"`
	Time        string      `json:"time"`
	Type        string      `json:"type"` // video, chat or in-person
	Reason      string      `json:"reason"`
	Status      QueueStatus `json:"status"`
	Priority    string      `json:"priority"`
	Phone       string      `json:"phone"`
	Age         int         `json:"age"`
	LastVisit   string      `json:"last_visit"`
}

// QueueSummary carries the per-status counters, always recomputed from the
// entry list.
type QueueSummary struct {
	Waiting    int `json:"waiting"`
	InProgress int `json:"in_progress"`
	Completed  int `json:"completed"`
}

// StockLevel classifies an inventory item's quantity against its thresholds.
type StockLevel string

const (
	StockLow    StockLevel = "low"
	StockNormal StockLevel = "normal"
	StockHigh   StockLevel = "high"
)

// InventoryItem is one pharmacy stock record.
type InventoryItem struct {
	Name          string    `json:"name"`
	Category      string    `json:"category"`
	CurrentStock  int       `json:"current_stock"`
	MinStock      int       `json:"min_stock"`
	MaxStock      int       `json:"max_stock"`
	Price         float64   `json:"price"`
	Supplier      string    `json:"supplier"`
	ExpiryDate    time.Time `json:"expiry_date"`
	LastRestocked time.Time `json:"last_restocked"`
}

// InventorySummary aggregates the full item collection.
type InventorySummary struct {
	TotalItems        int     `json:"total_items"`
	LowStockCount     int     `json:"low_stock_count"`
	TotalValue        float64 `json:"total_value"`
	ExpiringSoonCount int     `json:"expiring_soon_count"`
}

// SymptomAnalysis is the AI collaborator's verdict on a symptom set.
type SymptomAnalysis struct {
	PossibleConditions  []string `json:"possible_conditions"`
	Recommendations     []string `json:"recommendations"`
	Urgency             string   `json:"urgency"`
	SuggestedSpecialist string   `json:"suggested_specialist"`
	Confidence          float64  `json:"confidence"`
}

// Position is a resolved geolocation fix.
type Position struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Timestamp time.Time `json:"timestamp"`
}
