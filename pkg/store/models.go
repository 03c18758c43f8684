package store

import (
	"time"

	"gorm.io/datatypes"
)

// GORM models used for persistence. Nested expense structures (participants,
// line items, split maps) and flight payloads are stored as jsonb rather
// than joined tables; they are always read and written as a unit.

type UserModel struct {
	ID           string `gorm:"primaryKey"`
	Email        string `gorm:"uniqueIndex;not null"`
	Name         string
	PasswordHash string    `gorm:"not null"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time
}

type GroupModel struct {
	ID        string `gorm:"primaryKey"`
	Name      string `gorm:"not null"`
	Type      string `gorm:"not null"`
	StartDate *time.Time
	EndDate   *time.Time
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time
}

type MemberModel struct {
	ID          string  `gorm:"primaryKey"`
	GroupID     string  `gorm:"not null;index"`
	UserID      *string `gorm:"index"`
	DisplayName string  `gorm:"not null"`
	Email       string
	CreatedAt   time.Time `gorm:"not null"`
}

type ExpenseModel struct {
	ID            string `gorm:"primaryKey"`
	GroupID       string `gorm:"not null;index"`
	PayerMemberID *string
	Name          string `gorm:"not null"`
	Description   string
	Amount        string `gorm:"not null"`
	Currency      string `gorm:"not null"`
	Date          time.Time
	Category      string
	Status        string         `gorm:"not null"`
	SplitType     string         `gorm:"not null"`
	Participants  datatypes.JSON `gorm:"type:jsonb"`
	PercentMap    datatypes.JSON `gorm:"type:jsonb"`
	ShareMap      datatypes.JSON `gorm:"type:jsonb"`
	LineItems     datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt     time.Time      `gorm:"not null"`
	UpdatedAt     time.Time      `gorm:"not null"`
}

type PaymentModel struct {
	ID            string `gorm:"primaryKey"`
	ExpenseID     string `gorm:"not null;index"`
	PayerMemberID string `gorm:"not null"`
	Amount        string `gorm:"not null"`
	Currency      string `gorm:"not null"`
	PaidAt        time.Time
	Note          string
	CreatedAt     time.Time `gorm:"not null"`
}

type UploadedExpenseModel struct {
	ID               string         `gorm:"primaryKey"`
	ExpenseID        string         `gorm:"not null;index"`
	UploadedByID     string         `gorm:"not null"`
	OriginalFileName string         `gorm:"not null"`
	FileType         string         `gorm:"not null"`
	StorageKey       string         `gorm:"not null"`
	ProcessingStatus string         `gorm:"not null"`
	Attempts         int            `gorm:"not null"`
	RawText          string         `gorm:"type:text"`
	ParsedJSON       datatypes.JSON `gorm:"type:jsonb"`
	LastError        string
	CreatedAt        time.Time `gorm:"not null"`
	UpdatedAt        time.Time `gorm:"not null"`
}

type ItineraryItemModel struct {
	ID                      string    `gorm:"primaryKey"`
	GroupID                 string    `gorm:"not null;index"`
	Type                    string    `gorm:"not null"`
	Status                  string    `gorm:"not null"`
	Title                   string    `gorm:"not null"`
	StartDateTime           time.Time `gorm:"not null;index"`
	EndDateTime             *time.Time
	OriginLocationCode      string
	OriginName              string
	OriginAddress           string
	DestinationLocationCode string
	DestinationName         string
	DestinationAddress      string
	TransportNumber         string
	AirlineCode             string
	AirlineName             string
	FlightNumber            string
	RawTransportPayload     datatypes.JSON `gorm:"type:jsonb"`
	MemberIDs               datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt               time.Time      `gorm:"not null"`
}

type ChatTurnModel struct {
	ID        string    `gorm:"primaryKey"`
	UserID    string    `gorm:"not null;index:idx_chat_turns_scope"`
	Prompt    string    `gorm:"type:text;not null"`
	Response  string    `gorm:"type:text;not null"`
	Model     string    `gorm:"not null;index:idx_chat_turns_scope"`
	CreatedAt time.Time `gorm:"not null;index"`
}
