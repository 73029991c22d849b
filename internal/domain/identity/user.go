package identity

import (
	"strings"
	"time"
	"unicode"

	"github.com/civicconnect/backend/internal/domain/shared"
)

// User is the aggregate root for a platform account. Accounts are keyed by
// phone number (unique); identity verification happens at the edge via OTP,
// so no password material is stored.
type User struct {
	shared.BaseAggregateRoot
	FullName           string    `gorm:"type:varchar(200);not null"`
	PhoneNumber        string    `gorm:"type:varchar(20);not null;uniqueIndex"`
	Pincode            string    `gorm:"type:varchar(10);not null"`
	VillageName        string    `gorm:"type:varchar(200);not null"`
	District           string    `gorm:"type:varchar(200);not null"`
	TopicsOfInterest   TopicList `gorm:"type:jsonb;serializer:json"`
	IsPremium          bool      `gorm:"not null;default:false"`
	IsAdmin            bool      `gorm:"not null;default:false"`
	IsBlocked          bool      `gorm:"not null;default:false"`
	AllowNotifications bool      `gorm:"not null;default:false"`
}

// TopicList holds a user's topics of interest, persisted as a JSON array.
type TopicList []string

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// NewUser creates a new user account
func NewUser(fullName, phoneNumber, pincode, villageName, district string, topics []string) (*User, error) {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Full name cannot be empty")
	}
	if err := validatePhoneNumber(phoneNumber); err != nil {
		return nil, err
	}
	if err := validatePincode(pincode); err != nil {
		return nil, err
	}
	if strings.TrimSpace(villageName) == "" {
		return nil, shared.NewDomainError("INVALID_VILLAGE", "Village name cannot be empty")
	}
	if strings.TrimSpace(district) == "" {
		return nil, shared.NewDomainError("INVALID_DISTRICT", "District cannot be empty")
	}

	return &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		FullName:          fullName,
		PhoneNumber:       phoneNumber,
		Pincode:           pincode,
		VillageName:       strings.TrimSpace(villageName),
		District:          strings.TrimSpace(district),
		TopicsOfInterest:  append(TopicList{}, topics...),
	}, nil
}

// UpdateProfile updates the mutable profile fields. Empty values leave the
// current field unchanged.
func (u *User) UpdateProfile(fullName, pincode, villageName, district string, topics []string) error {
	if fullName != "" {
		u.FullName = strings.TrimSpace(fullName)
	}
	if pincode != "" {
		if err := validatePincode(pincode); err != nil {
			return err
		}
		u.Pincode = pincode
	}
	if villageName != "" {
		u.VillageName = strings.TrimSpace(villageName)
	}
	if district != "" {
		u.District = strings.TrimSpace(district)
	}
	if topics != nil {
		u.TopicsOfInterest = append(TopicList{}, topics...)
	}
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	return nil
}

// ChangePhoneNumber updates the account's phone number. Uniqueness against
// other accounts is enforced by the application service before calling this.
func (u *User) ChangePhoneNumber(phoneNumber string) error {
	if err := validatePhoneNumber(phoneNumber); err != nil {
		return err
	}
	u.PhoneNumber = phoneNumber
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	return nil
}

// SetNotificationPreference toggles push/mail notifications for the account
func (u *User) SetNotificationPreference(allow bool) {
	u.AllowNotifications = allow
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
}

// Block marks the account as blocked
func (u *User) Block() {
	u.IsBlocked = true
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
}

// Unblock clears the blocked flag
func (u *User) Unblock() {
	u.IsBlocked = false
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
}

func validatePhoneNumber(phone string) error {
	if phone == "" {
		return shared.NewDomainError("INVALID_PHONE", "Phone number cannot be empty")
	}
	if len(phone) < 7 || len(phone) > 20 {
		return shared.NewDomainError("INVALID_PHONE", "Phone number must be 7-20 characters")
	}
	for i, r := range phone {
		if unicode.IsDigit(r) || (i == 0 && r == '+') {
			continue
		}
		return shared.NewDomainError("INVALID_PHONE", "Phone number may contain only digits and a leading +")
	}
	return nil
}

func validatePincode(pincode string) error {
	if pincode == "" {
		return shared.NewDomainError("INVALID_PINCODE", "Pincode cannot be empty")
	}
	for _, r := range pincode {
		if !unicode.IsDigit(r) {
			return shared.NewDomainError("INVALID_PINCODE", "Pincode must be numeric")
		}
	}
	return nil
}
